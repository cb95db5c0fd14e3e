package cuemusic

import (
	"errors"
	"time"

	"github.com/AndiJegeni/cuemusic/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrSoundNotFound       = domain.ErrSoundNotFound
	ErrLibraryNotFound     = domain.ErrLibraryNotFound
	ErrAlreadyExists       = domain.ErrAlreadyExists
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrSearchQuotaExceeded = domain.ErrSearchQuotaExceeded
)

// QuotaExceeded returns the quota state carried by a denied search.
func QuotaExceeded(err error) (QuotaInfo, bool) {
	var qe *domain.QuotaExceededError
	if !errors.As(err, &qe) {
		return QuotaInfo{}, false
	}
	return QuotaInfo{
		Used:     qe.Used,
		Limit:    qe.Limit,
		ResetsAt: time.UnixMilli(qe.ResetsAt).UTC(),
	}, true
}
