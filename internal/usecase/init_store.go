package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hotelops/reklamacije/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	Config  *domain.Config // Written as the repo config template (nil = defaults)
	DataDir string         // Path to the .reklamacije directory
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	ConfigPath         string // Path of the repo config file
	AlreadyInitialized bool   // Store existed before this call
	ConfigCreated      bool   // Config template was written by this call
}

// InitStore prepares the data directory, config file and task store.
type InitStore struct {
	storeInit domain.StoreInitializer
	configMgr domain.ConfigManager
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, configMgr domain.ConfigManager) *InitStore {
	return &InitStore{storeInit: storeInit, configMgr: configMgr}
}

// Execute initializes the store. Running it again repairs a partial setup
// and leaves an existing config file untouched.
func (uc *InitStore) Execute(ctx context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	out := &InitStoreOutput{AlreadyInitialized: uc.storeInit.IsInitialized(ctx)}

	if err := os.MkdirAll(domain.LogsDir(in.DataDir), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	if uc.configMgr != nil {
		switch err := uc.configMgr.InitRepoConfig(cfg); {
		case errors.Is(err, domain.ErrConfigExists):
		case err != nil:
			return nil, fmt.Errorf("write config: %w", err)
		default:
			out.ConfigCreated = true
		}
		out.ConfigPath = uc.configMgr.RepoConfigPath()
	}

	if err := uc.storeInit.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return out, nil
}
