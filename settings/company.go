// Package settings holds the company configuration read once per report request.
package settings

import (
	"strings"
)

// Company is the stored company configuration. Updates replace it as a whole.
type Company struct {
	Name    string `json:"name"`
	TimeIn  string `json:"timeIn"`
	TimeOut string `json:"timeOut"`
}

// Default returns the configuration used until one is saved.
func Default() Company {
	return Company{
		Name:    "AL HASAN",
		TimeIn:  "09:00",
		TimeOut: "18:00",
	}
}

// WithOverrides returns c with every non-blank argument taking precedence.
func (c Company) WithOverrides(name, timeIn, timeOut string) Company {
	if v := strings.TrimSpace(name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(timeIn); v != "" {
		c.TimeIn = v
	}
	if v := strings.TrimSpace(timeOut); v != "" {
		c.TimeOut = v
	}
	return c
}
