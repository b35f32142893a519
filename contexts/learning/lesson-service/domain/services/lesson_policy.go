package services

import (
	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	domainerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
)

// ResolveLessonOrder applies the placement rules for a new lesson: intro
// lessons sit at position 0 and are unique per module, other lessons take
// the requested order or append after the current maximum.
func ResolveLessonOrder(isIntro bool, requested *int, moduleHasIntro bool, maxOrder int) (int, error) {
	if isIntro {
		if moduleHasIntro {
			return 0, domainerrors.ErrIntroAlreadyExists
		}
		return 0, nil
	}
	if requested != nil {
		if *requested < 0 {
			return 0, domainerrors.ErrInvalidRequest
		}
		return *requested, nil
	}
	return maxOrder + 1, nil
}

// ValidateLesson checks the fields a stored lesson must carry.
func ValidateLesson(lesson entities.Lesson) error {
	if lesson.ModuleID <= 0 || lesson.MediaFile == "" {
		return domainerrors.ErrInvalidRequest
	}
	if !lesson.MediaType.Valid() {
		return domainerrors.ErrInvalidMediaType
	}
	return nil
}
