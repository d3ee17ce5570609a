package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/hotelops/reklamacije/internal/domain"
)

// ShowConfigTemplateInput selects the values and the part of config.toml to render.
type ShowConfigTemplateInput struct {
	Config  *domain.Config // Values filled into store, scheduler, notify and log
	Section string         // Single table to print ("scheduler"); empty prints the whole file
}

// ShowConfigTemplateOutput contains the rendered TOML.
type ShowConfigTemplateOutput struct {
	Template string
}

// ShowConfigTemplate renders the commented config.toml that `init` writes
// into the data directory.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute renders the template, optionally narrowed to one table together
// with the comments attached to it.
func (uc *ShowConfigTemplate) Execute(_ context.Context, in ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	if in.Config == nil {
		return nil, domain.ErrConfigNil
	}
	rendered := domain.RenderConfigTemplate(in.Config)
	if in.Section == "" {
		return &ShowConfigTemplateOutput{Template: rendered}, nil
	}

	header := "[" + strings.ToLower(strings.TrimSpace(in.Section)) + "]"
	for _, block := range strings.Split(rendered, "\n\n") {
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) == header {
				return &ShowConfigTemplateOutput{Template: strings.TrimRight(block, "\n") + "\n"}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown config section %q", domain.ErrValidation, in.Section)
}
