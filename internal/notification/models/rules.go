package models

// Rules lists which optional filter stages apply to a notifiable event type.
// Actor exclusion and access filtering apply to every notifiable type.
type Rules struct {
	// PreferenceKey is the event type users opt into.
	PreferenceKey EventType
	// ExcludeLastEditor drops the document's most recent editor.
	ExcludeLastEditor bool
	// CollaboratorsOnly narrows the pool to the document's collaborators.
	CollaboratorsOnly bool
	// SuppressIfViewed drops users who viewed the document since its last change.
	SuppressIfViewed bool
}

// eventRules is exhaustive over notifiable types; a type missing here is not notifiable.
var eventRules = map[EventType]Rules{
	EventDocumentPublish: {
		PreferenceKey: EventDocumentPublish,
	},
	EventRevisionCreate: {
		PreferenceKey:     EventDocumentUpdate,
		ExcludeLastEditor: true,
		CollaboratorsOnly: true,
		SuppressIfViewed:  true,
	},
}

// RulesFor returns the stage rules for t.
func RulesFor(t EventType) (Rules, bool) {
	r, ok := eventRules[t]
	return r, ok
}
