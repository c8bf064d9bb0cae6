package domain

import "errors"

var (
	// ErrChainNotFound means no source knows the requested chain.
	ErrChainNotFound = errors.New("chain not found")

	// ErrStorageFailure means the persistent key/value backend failed to read or write.
	ErrStorageFailure = errors.New("storage operation failed")

	// ErrLocalChainConflict means a local chain would shadow a registry mainnet or testnet.
	ErrLocalChainConflict = errors.New("local chain conflicts with registry chain")
)
