package social

import (
	"errors"
	"testing"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range set {
		if existing == id {
			return true
		}
	}
	return false
}

func TestToggleFollowSymmetry(t *testing.T) {
	a := &models.User{ID: primitive.NewObjectID()}
	b := &models.User{ID: primitive.NewObjectID()}

	following, err := ToggleFollow(a, b)
	if err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	if !following {
		t.Error("first toggle should follow")
	}
	if !contains(a.Following, b.ID) {
		t.Error("after follow, b must be in a.following")
	}
	if !contains(b.Followers, a.ID) {
		t.Error("after follow, a must be in b.followers")
	}

	following, err = ToggleFollow(a, b)
	if err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	if following {
		t.Error("second toggle should unfollow")
	}
	if contains(a.Following, b.ID) {
		t.Error("after unfollow, b must not be in a.following")
	}
	if contains(b.Followers, a.ID) {
		t.Error("after unfollow, a must not be in b.followers")
	}
}

func TestToggleFollowNoDuplicates(t *testing.T) {
	a := &models.User{ID: primitive.NewObjectID()}
	b := &models.User{ID: primitive.NewObjectID()}

	// Simulate a stale in-memory state where the relation already exists
	// in one direction only.
	a.Following = []primitive.ObjectID{}
	b.Followers = []primitive.ObjectID{a.ID}

	if _, err := ToggleFollow(a, b); err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	count := 0
	for _, id := range b.Followers {
		if id == a.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("b.followers contains a %d times, want 1", count)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	a := &models.User{ID: primitive.NewObjectID()}
	a.Following = []primitive.ObjectID{primitive.NewObjectID()}

	if _, err := ToggleFollow(a, a); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("self-follow error = %v, want ErrSelfFollow", err)
	}
	if len(a.Following) != 1 {
		t.Error("self-follow must not mutate the graph")
	}
}

func TestToggleLikeRoundTrip(t *testing.T) {
	user := primitive.NewObjectID()
	baseline := []primitive.ObjectID{primitive.NewObjectID()}
	post := &models.Post{ID: primitive.NewObjectID(), Likes: append([]primitive.ObjectID{}, baseline...)}

	liked, count := ToggleLike(post, user)
	if !liked || count != 2 {
		t.Errorf("first toggle = (%v, %d), want (true, 2)", liked, count)
	}

	liked, count = ToggleLike(post, user)
	if liked || count != 1 {
		t.Errorf("second toggle = (%v, %d), want (false, 1)", liked, count)
	}
	if !contains(post.Likes, baseline[0]) {
		t.Error("double toggle must leave other likes untouched")
	}
}

func TestToggleLikeNilLikes(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID()}
	liked, count := ToggleLike(post, primitive.NewObjectID())
	if !liked || count != 1 {
		t.Errorf("toggle on nil likes = (%v, %d), want (true, 1)", liked, count)
	}
}

func TestAppendCommentValidation(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID()}
	user := primitive.NewObjectID()

	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := AppendComment(post, user, text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("AppendComment(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
	if len(post.Comments) != 0 {
		t.Error("rejected comments must not be appended")
	}
}

func TestAppendCommentOrder(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID()}
	user := primitive.NewObjectID()

	first, err := AppendComment(post, user, "  first  ")
	if err != nil {
		t.Fatalf("AppendComment: %v", err)
	}
	if first.Text != "first" {
		t.Errorf("comment text = %q, want trimmed %q", first.Text, "first")
	}
	if first.ID.IsZero() {
		t.Error("comment must get a server-assigned id")
	}

	if _, err := AppendComment(post, user, "second"); err != nil {
		t.Fatalf("AppendComment: %v", err)
	}

	if len(post.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(post.Comments))
	}
	if post.Comments[0].Text != "first" || post.Comments[1].Text != "second" {
		t.Error("comments must preserve insertion order")
	}
}

func TestAppendReply(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID()}
	user := primitive.NewObjectID()

	comment, err := AppendComment(post, user, "parent")
	if err != nil {
		t.Fatalf("AppendComment: %v", err)
	}

	if _, err := AppendReply(comment, user, "  "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("blank reply error = %v, want ErrEmptyText", err)
	}

	reply, err := AppendReply(comment, user, " hello ")
	if err != nil {
		t.Fatalf("AppendReply: %v", err)
	}
	if reply.Text != "hello" {
		t.Errorf("reply text = %q, want trimmed %q", reply.Text, "hello")
	}
	if _, err := AppendReply(comment, user, "again"); err != nil {
		t.Fatalf("AppendReply: %v", err)
	}
	if len(post.Comments[0].Replies) != 2 {
		t.Fatalf("got %d replies on the embedded comment, want 2", len(post.Comments[0].Replies))
	}
	if post.Comments[0].Replies[0].Text != "hello" {
		t.Error("replies must preserve insertion order")
	}
}
