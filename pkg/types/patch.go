package types

import "time"

// SkillPatch lists the fields a partial update changes. Nil fields are left
// alone. Pinned accepts any raw input and is coerced when applied.
type SkillPatch struct {
	Title     *string
	Content   *string
	Category  *string
	Tags      *string
	Pinned    any
	Completed *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p SkillPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil &&
		p.Tags == nil && p.Pinned == nil && p.Completed == nil
}

// Apply merges the patch into s and stamps UpdatedAt. Completing a skill
// forces its pin level to PinNone, whatever the patch says about Pinned;
// reopening it keeps the current level. UpdatedAt never moves before
// CreatedAt.
func (p SkillPatch) Apply(s *Skill, now time.Time) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Tags != nil {
		s.Tags = *p.Tags
	}
	if p.Pinned != nil {
		s.Pinned = CoercePinned(p.Pinned)
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
		if s.Completed {
			s.Pinned = PinNone
		}
	}
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = now
}
