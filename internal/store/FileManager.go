package store

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// FileManager writes the memory store to a compressed file and reads it
// back on startup. Stores that are not Snapshotters are left alone.
type FileManager struct {
	kv         KV
	compressor CompressorInterface
}

func NewFileManager(compressor CompressorInterface, kv KV) *FileManager {
	return &FileManager{
		compressor: compressor,
		kv:         kv,
	}
}

// Enabled reports whether the underlying store needs file persistence.
func (f *FileManager) Enabled() bool {
	_, ok := f.kv.(Snapshotter)
	return ok
}

func (f *FileManager) SaveToFile(fileName string) error {
	snap, ok := f.kv.(Snapshotter)
	if !ok {
		return nil
	}

	jsonData, err := json.Marshal(snapshotFile{Version: snapshotVersion, Entries: snap.Snapshot()})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	snap, ok := f.kv.(Snapshotter)
	if !ok {
		return nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var file snapshotFile
	if err := json.Unmarshal(decompressedData, &file); err != nil {
		return err
	}
	if file.Entries != nil {
		snap.Restore(file.Entries)
	}
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
