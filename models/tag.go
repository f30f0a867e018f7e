package models

import "strings"

// Tag is one label of the closed topic vocabulary.
type Tag string

const (
	TagInbox     Tag = "Inbox"
	TagFood      Tag = "Food"
	TagTravel    Tag = "Travel"
	TagTech      Tag = "Tech"
	TagFitness   Tag = "Fitness"
	TagHome      Tag = "Home"
	TagStyle     Tag = "Style"
	TagFinance   Tag = "Finance"
	TagLearning  Tag = "Learning"
	TagEvents    Tag = "Events"
	TagDIY       Tag = "DIY"
	TagBeauty    Tag = "Beauty"
	TagHealth    Tag = "Health"
	TagParenting Tag = "Parenting"
	TagPets      Tag = "Pets"
	TagOther     Tag = "Other"
)

// AllTags returns the vocabulary in canonical order.
func AllTags() []Tag {
	return []Tag{
		TagInbox, TagFood, TagTravel, TagTech, TagFitness, TagHome, TagStyle, TagFinance,
		TagLearning, TagEvents, TagDIY, TagBeauty, TagHealth, TagParenting, TagPets, TagOther,
	}
}

// IsValid reports whether t is an exact vocabulary member.
func (t Tag) IsValid() bool {
	for _, v := range AllTags() {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTag resolves a tag name case-insensitively.
func ParseTag(name string) (Tag, bool) {
	name = strings.TrimSpace(name)
	for _, v := range AllTags() {
		if strings.EqualFold(string(v), name) {
			return v, true
		}
	}
	return "", false
}
