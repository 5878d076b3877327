package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
)

// ControlWrapper implements the Tool interface for reading the control catalog
type ControlWrapper struct {
	Catalog *catalog.Catalog
}

func (c *ControlWrapper) Name() string {
	return "LookupControl"
}

func (c *ControlWrapper) Description() string {
	return "Returns the description of one or more CMMC controls (comma-separated ids allowed). If no id is given, lists all known controls."
}

func (c *ControlWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"control_id": map[string]interface{}{
				"type":        "string",
				"description": "Control id such as 'AC.L2-3.1.1'. If omitted, lists all controls.",
			},
		},
	}
}

func (c *ControlWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if c.Catalog == nil {
		return "Error: Control catalog not initialized.", nil
	}

	controlID, _ := args["control_id"].(string)

	// Case 1: List controls
	if strings.TrimSpace(controlID) == "" {
		return fmt.Sprintf("Available %s controls: %s", c.Catalog.Standard, strings.Join(c.Catalog.IDs(), ", ")), nil
	}

	// Case 2: Describe controls
	var sb strings.Builder
	for _, id := range catalog.SplitIDs(controlID) {
		ctl, ok := c.Catalog.Lookup(id)
		if !ok {
			sb.WriteString(fmt.Sprintf("%s: not in the catalog\n", id))
			continue
		}
		domain := ""
		if d, ok := c.Catalog.DomainOf(id); ok {
			domain = fmt.Sprintf(" [%s]", d.Name)
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", ctl.ID, domain, ctl.Description))
	}
	return sb.String(), nil
}
