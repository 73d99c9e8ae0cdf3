package feed

import (
	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SuggestionLimit is the maximum number of follow suggestions.
const SuggestionLimit = 8

// Justification strings attached to suggestions.
const (
	ReasonFollowsYou = "Follows you"
	ReasonSuggested  = "Suggested for you"
)

// Suggestion is a candidate user to follow with a single justification.
type Suggestion struct {
	User   models.UserCompact `json:"user"`
	Reason string             `json:"reason"`
}

// Suggest unions the candidate sources in priority order, deduplicated
// by id with the first-seen justification winning, excluding the viewer
// and anyone already followed, truncated to SuggestionLimit.
//
// Sources, highest priority first:
//  1. followsYou: users who follow the viewer ("Follows you")
//  2. followedByFollowed: users followed by someone the viewer follows,
//     skipping users who already follow the viewer
//  3. followerOfFollowed: users who follow someone the viewer follows
//
// A viewer who follows nobody gets no suggestions; there is no
// popularity fallback.
func Suggest(viewer *models.User, followsYou, followedByFollowed, followerOfFollowed []models.User) []Suggestion {
	suggestions := []Suggestion{}
	if len(viewer.Following) == 0 {
		return suggestions
	}

	excluded := make(map[primitive.ObjectID]bool, len(viewer.Following)+1)
	excluded[viewer.ID] = true
	for _, id := range viewer.Following {
		excluded[id] = true
	}

	followsViewer := make(map[primitive.ObjectID]bool, len(viewer.Followers))
	for _, id := range viewer.Followers {
		followsViewer[id] = true
	}

	seen := make(map[primitive.ObjectID]bool)
	add := func(candidates []models.User, reason string, skipViewerFollowers bool) {
		for _, u := range candidates {
			if len(suggestions) >= SuggestionLimit {
				return
			}
			if excluded[u.ID] || seen[u.ID] {
				continue
			}
			if skipViewerFollowers && followsViewer[u.ID] {
				continue
			}
			seen[u.ID] = true
			suggestions = append(suggestions, Suggestion{User: u.ToCompact(), Reason: reason})
		}
	}

	add(followsYou, ReasonFollowsYou, false)
	add(followedByFollowed, ReasonSuggested, true)
	add(followerOfFollowed, ReasonSuggested, false)

	return suggestions
}
