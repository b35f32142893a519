package services

import (
	"strings"

	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
)

const (
	MaxTitleLength    = 200
	MaxLocationLength = 255
)

func ValidateEvent(event entities.OfflineEvent) error {
	title := strings.TrimSpace(event.Title)
	location := strings.TrimSpace(event.Location)
	switch {
	case title == "", location == "":
		return domainerrors.ErrInvalidRequest
	case len([]rune(title)) > MaxTitleLength, len([]rune(location)) > MaxLocationLength:
		return domainerrors.ErrInvalidRequest
	}
	return nil
}
