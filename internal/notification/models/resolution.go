package models

import id "docnotify/pkg/domain"

// Stage names one step of the recipient pipeline.
type Stage string

const (
	StageRoster        Stage = "roster"
	StageDocument      Stage = "document"
	StageActor         Stage = "actor"
	StageLastEditor    Stage = "last_editor"
	StageCollaborators Stage = "collaborators"
	StagePreference    Stage = "preference"
	StageAccess        Stage = "access"
	StageFreshness     Stage = "freshness"
)

// Suppression records the stage that removed a candidate.
type Suppression struct {
	UserID id.UserID
	Stage  Stage
}

// Resolution is the outcome of running the pipeline for one event.
type Resolution struct {
	Document   *Document
	Recipients []id.UserID
	Suppressed []Suppression
}

// Contains reports whether userID survived every stage.
func (r *Resolution) Contains(userID id.UserID) bool {
	for _, u := range r.Recipients {
		if u == userID {
			return true
		}
	}
	return false
}
