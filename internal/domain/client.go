package domain

import (
	"fmt"
	"strings"
)

// Client is a customer or project that work sessions are billed against.
type Client struct {
	ID   int64
	Name string
	Note string
}

// Validate checks the fields a caller must supply before insertion.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	return nil
}
