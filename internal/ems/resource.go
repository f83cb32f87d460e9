// Package ems is the client for the Contxt EMS (energy management) service:
// facilities, main services, utility spend and usage, and utility contracts.
package ems

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// ResourceType is the utility a main service or usage series measures.
type ResourceType string

// Resource types.
const (
	Combined ResourceType = "combined"
	Electric ResourceType = "electric"
	Gas      ResourceType = "gas"
	Water    ResourceType = "water"
)

// ErrUnknownResourceType is returned by ParseResourceType.
var ErrUnknownResourceType = errors.New("unknown resource type")

//nolint:gochecknoglobals // Fixed enum set shared by the specs below.
var resourceTypes = mapping.NewEnum("ResourceType",
	string(Combined), string(Electric), string(Gas), string(Water))

// ResourceTypes returns every resource type in declaration order.
func ResourceTypes() []ResourceType {
	return []ResourceType{Combined, Electric, Gas, Water}
}

// ParseResourceType parses a case-insensitive resource type name.
func ParseResourceType(s string) (ResourceType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if !resourceTypes.Contains(v) {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceType, s)
	}
	return ResourceType(v), nil
}

func (r ResourceType) String() string {
	return string(r)
}
