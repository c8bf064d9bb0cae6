package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	dto "chainstore/internal/adapter/storage/seed/dto"
	"chainstore/internal/domain/entity"
	"chainstore/internal/pkg/apperrors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Repository reads the registry seed file.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository creates a seed repository for the YAML file at path.
func NewRepository(path string, logger *zap.Logger) *Repository {
	return &Repository{
		path:   path,
		logger: logger.Named("RegistrySeed"),
	}
}

// Load reads and maps the seed file. The snapshot SHA is the hex sha256 of the file bytes.
func (r *Repository) Load() (entity.RegistrySnapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entity.RegistrySnapshot{}, fmt.Errorf("%w: registry seed %s", apperrors.ErrNotFound, r.path)
		}
		return entity.RegistrySnapshot{}, fmt.Errorf("%w: read registry seed %s: %v", apperrors.ErrInternal, r.path, err)
	}

	var raw dto.RegistryRaw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		r.logger.Error("Failed to parse registry seed", zap.String("path", r.path), zap.Error(err))
		return entity.RegistrySnapshot{}, fmt.Errorf("%w: parse registry seed %s: %v", apperrors.ErrInvalidInput, r.path, err)
	}

	sum := sha256.Sum256(data)
	registry := entity.RegistrySnapshot{
		Mainnets: toDomainChains(raw.Mainnets, entity.NetworkMainnet, r.logger),
		Testnets: toDomainChains(raw.Testnets, entity.NetworkTestnet, r.logger),
		SHA:      hex.EncodeToString(sum[:]),
	}
	r.logger.Info("Loaded registry seed",
		zap.String("path", r.path),
		zap.Int("mainnets", len(registry.Mainnets)),
		zap.Int("testnets", len(registry.Testnets)))

	return registry, nil
}
