package service

import (
	apperrors "tapgame-backend/internal/common/errors"
)

// Rule violations. They compare by code, so errors.Is(err, ErrNoEnergy) holds for any NO_ENERGY error.
var (
	ErrNoEnergy        = apperrors.New(apperrors.ErrCodeNoEnergy, "Not enough energy")
	ErrNotEnoughTokens = apperrors.New(apperrors.ErrCodeNotEnoughTokens, "Not enough tokens")
	ErrAlreadyClaimed  = apperrors.New(apperrors.ErrCodeAlreadyClaimed, "Daily bonus already claimed today")
	ErrBadKind         = apperrors.New(apperrors.ErrCodeBadKind, "Unknown upgrade kind")
	ErrBadBuilding     = apperrors.New(apperrors.ErrCodeBadBuilding, "Unknown building")
)

func noEnergy(energy float64, need int) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNoEnergy, "Not enough energy").
		WithDetail("energy", energy).
		WithDetail("need", need)
}

func notEnoughTokens(tokens, cost int64) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNotEnoughTokens, "Not enough tokens").
		WithDetail("tokens", tokens).
		WithDetail("cost", cost)
}

func alreadyClaimed() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeAlreadyClaimed, "Daily bonus already claimed today")
}

func badKind(kind string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeBadKind, "Unknown upgrade kind").WithDetail("kind", kind)
}

func badBuilding(building string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeBadBuilding, "Unknown building").WithDetail("building", building)
}
