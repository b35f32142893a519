package services

import (
	"fmt"
	"strings"
)

// CategoryBaseSlug falls back to "category" when the name does not
// transliterate to anything.
func CategoryBaseSlug(slugified string) string {
	if strings.TrimSpace(slugified) == "" {
		return "category"
	}
	return slugified
}

// CategoryCollisionSlug is the n-th candidate after base is taken.
func CategoryCollisionSlug(base string, counter int, random string) string {
	return fmt.Sprintf("%s-%d-%s", base, counter, strings.ToLower(random))
}

// ModuleBaseSlug prefixes the module name slug with its topic slug.
func ModuleBaseSlug(topicSlug string, nameSlug string) string {
	switch {
	case topicSlug == "":
		return nameSlug
	case nameSlug == "":
		return topicSlug
	default:
		return topicSlug + "-" + nameSlug
	}
}

// LessonBaseSlug derives the lesson slug from its module and position.
func LessonBaseSlug(moduleSlug string, isIntro bool, order int) string {
	if isIntro {
		return "intro-" + moduleSlug
	}
	return fmt.Sprintf("lesson-%s-%d", moduleSlug, order)
}

// CounterSlug is the n-th candidate used by topics, modules and lessons.
func CounterSlug(base string, counter int) string {
	return fmt.Sprintf("%s-%d", base, counter)
}
