package domain

// ToggleRule is a named on/off switch that injects a fixed tag fragment
// into every search while enabled.
type ToggleRule struct {
	Name        string `json:"name"`
	TagFragment string `json:"tag_fragment"`
	Enabled     bool   `json:"enabled"`
}

// UserPreferences holds a user's persistent search preferences.
// AutoTags and ToggleRules preserve insertion order and contain no
// duplicates (exact, case-sensitive match on tag and rule name).
type UserPreferences struct {
	UserID      int64        `json:"user_id"`
	AutoTags    []string     `json:"auto_tags"`
	ToggleRules []ToggleRule `json:"toggle_rules"`
}

// NewUserPreferences creates empty preferences for a user.
func NewUserPreferences(userID int64) *UserPreferences {
	return &UserPreferences{
		UserID:      userID,
		AutoTags:    []string{},
		ToggleRules: []ToggleRule{},
	}
}

// Clone returns a deep copy so callers can mutate freely.
func (p *UserPreferences) Clone() *UserPreferences {
	c := &UserPreferences{
		UserID:      p.UserID,
		AutoTags:    make([]string, len(p.AutoTags)),
		ToggleRules: make([]ToggleRule, len(p.ToggleRules)),
	}
	copy(c.AutoTags, p.AutoTags)
	copy(c.ToggleRules, p.ToggleRules)
	return c
}

// HasAutoTag reports whether tag is already stored.
func (p *UserPreferences) HasAutoTag(tag string) bool {
	for _, t := range p.AutoTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddAutoTag appends tag, keeping insertion order.
// Returns false if the tag was already present.
func (p *UserPreferences) AddAutoTag(tag string) bool {
	if p.HasAutoTag(tag) {
		return false
	}
	p.AutoTags = append(p.AutoTags, tag)
	return true
}

// RemoveAutoTag removes tag. Returns false if it was not stored.
func (p *UserPreferences) RemoveAutoTag(tag string) bool {
	for i, t := range p.AutoTags {
		if t == tag {
			p.AutoTags = append(p.AutoTags[:i], p.AutoTags[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAutoTagAt removes the tag at index, returning it.
// Returns false for an out-of-range index.
func (p *UserPreferences) RemoveAutoTagAt(index int) (string, bool) {
	if index < 0 || index >= len(p.AutoTags) {
		return "", false
	}
	tag := p.AutoTags[index]
	p.AutoTags = append(p.AutoTags[:index], p.AutoTags[index+1:]...)
	return tag, true
}

// ClearAutoTags removes all auto tags and returns how many were removed.
func (p *UserPreferences) ClearAutoTags() int {
	n := len(p.AutoTags)
	p.AutoTags = p.AutoTags[:0]
	return n
}

// Rule returns the toggle rule with the given name, or nil.
func (p *UserPreferences) Rule(name string) *ToggleRule {
	for i := range p.ToggleRules {
		if p.ToggleRules[i].Name == name {
			return &p.ToggleRules[i]
		}
	}
	return nil
}

// Toggle flips the named rule and returns its new state.
// An unknown rule is created enabled, with the name doubling as the
// injected tag fragment.
func (p *UserPreferences) Toggle(name string) bool {
	if r := p.Rule(name); r != nil {
		r.Enabled = !r.Enabled
		return r.Enabled
	}
	p.ToggleRules = append(p.ToggleRules, ToggleRule{
		Name:        name,
		TagFragment: name,
		Enabled:     true,
	})
	return true
}

// SetRule forces the named rule to a specific state, creating it if needed.
func (p *UserPreferences) SetRule(name string, enabled bool) {
	if r := p.Rule(name); r != nil {
		r.Enabled = enabled
		return
	}
	p.ToggleRules = append(p.ToggleRules, ToggleRule{
		Name:        name,
		TagFragment: name,
		Enabled:     enabled,
	})
}

// EnabledRules returns the enabled rules in stored order.
func (p *UserPreferences) EnabledRules() []ToggleRule {
	var rules []ToggleRule
	for _, r := range p.ToggleRules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}
	return rules
}

// ClearRules removes all toggle rules and returns how many were removed.
func (p *UserPreferences) ClearRules() int {
	n := len(p.ToggleRules)
	p.ToggleRules = p.ToggleRules[:0]
	return n
}
