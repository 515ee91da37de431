package providers

import (
	"fmt"
	"ytwatch/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch c.conf.Store.Driver {
	case "redis", "sqlite", "postgres":
		if c.conf.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %s", c.conf.Store.Driver)
		}
	}
	if c.conf.Poll.LeaseMargin >= c.conf.Poll.LockTTL {
		return fmt.Errorf("poll.leaseMargin (%s) must be shorter than poll.lockTTL (%s)", c.conf.Poll.LeaseMargin, c.conf.Poll.LockTTL)
	}
	return nil
}
