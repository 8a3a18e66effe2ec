package schedule

import "errors"

// Ошибки движков. Ни одна из них не оставляет календарь частично изменённым.
var (
	ErrInvalidRoom        = errors.New("invalid room number")
	ErrInvalidUser        = errors.New("user name is required")
	ErrInvalidDuration    = errors.New("duration must be a positive multiple of half an hour")
	ErrSplitCrossing      = errors.New("range crosses the monday evening split")
	ErrQuotaExceeded      = errors.New("weekly quota exceeded")
	ErrCrossRoomConflict  = errors.New("user already holds the other room at this time")
	ErrSlotUnavailable    = errors.New("slot is already taken")
	ErrIndexOutOfRange    = errors.New("slot index out of range")
	ErrNoReservation      = errors.New("no reservation owned by user at this slot")
	ErrNoRaid             = errors.New("no raid at this slot")
	ErrNoRecording        = errors.New("no recording session at this slot")
	ErrReservationInPast  = errors.New("reservation starts in the past")
	ErrReservationStarted = errors.New("reservation has already started")
)
