package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase"
)

func TestShowConfigTemplate_Execute(t *testing.T) {
	// Setup
	cfg := domain.NewDefaultConfig()
	cfg.Scheduler.Cron = "0 6 * * *"
	uc := usecase.NewShowConfigTemplate()

	// Execute
	out, err := uc.Execute(context.Background(), usecase.ShowConfigTemplateInput{Config: cfg})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.Template, "[scheduler]")
	assert.Contains(t, out.Template, "0 6 * * *")
}

func TestShowConfigTemplate_NilConfig(t *testing.T) {
	uc := usecase.NewShowConfigTemplate()

	_, err := uc.Execute(context.Background(), usecase.ShowConfigTemplateInput{})

	assert.ErrorIs(t, err, domain.ErrConfigNil)
}

func TestShowConfigTemplate_Section(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		contains []string
		excludes []string
		wantErr  bool
	}{
		{name: "scheduler", section: "scheduler", contains: []string{"[scheduler]", "timezone = \"Local\""}, excludes: []string{"[store]", "[notify]"}},
		{name: "comment above header kept", section: "Actor", contains: []string{"# Default identity", "[actor]"}, excludes: []string{"[log]"}},
		{name: "unknown", section: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			uc := usecase.NewShowConfigTemplate()

			// Execute
			out, err := uc.Execute(context.Background(), usecase.ShowConfigTemplateInput{
				Config:  domain.NewDefaultConfig(),
				Section: tt.section,
			})

			// Assert
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out.Template, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.Template, s)
			}
		})
	}
}
