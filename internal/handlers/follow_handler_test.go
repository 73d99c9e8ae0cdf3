package handlers

import (
	"net/http"
	"testing"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func followRequest(t *testing.T, h *FollowHandler, actorID primitive.ObjectID, targetHex string) (map[string]interface{}, error) {
	t.Helper()
	e := newEcho()
	c, rec := jsonRequest(e, http.MethodPost, "/users/"+targetHex+"/follow", "")
	authenticate(c, actorID)
	c.SetParamNames("id")
	c.SetParamValues(targetHex)
	if err := h.ToggleFollow(c); err != nil {
		return nil, err
	}
	return decodeBody(t, rec), nil
}

func TestToggleFollowSymmetry(t *testing.T) {
	users := newFakeUserRepo()
	a := users.add(models.User{Username: "a"})
	b := users.add(models.User{Username: "b"})
	h := NewFollowHandler(users, newFakeSessionStore())

	body, err := followRequest(t, h, a.ID, b.ID.Hex())
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if body["following"] != true {
		t.Errorf("body = %v, want following=true", body)
	}

	storedA, _ := users.GetUserByID(nil, a.ID)
	storedB, _ := users.GetUserByID(nil, b.ID)
	if !storedA.IsFollowing(b.ID) {
		t.Error("after follow, b must be in a.following")
	}
	if len(storedB.Followers) != 1 || storedB.Followers[0] != a.ID {
		t.Error("after follow, a must be in b.followers")
	}

	body, err = followRequest(t, h, a.ID, b.ID.Hex())
	if err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if body["following"] != false {
		t.Errorf("body = %v, want following=false", body)
	}

	storedA, _ = users.GetUserByID(nil, a.ID)
	storedB, _ = users.GetUserByID(nil, b.ID)
	if storedA.IsFollowing(b.ID) || len(storedB.Followers) != 0 {
		t.Error("after unfollow, neither side of the relation may remain")
	}
}

func TestToggleFollowSelf(t *testing.T) {
	users := newFakeUserRepo()
	a := users.add(models.User{Username: "a"})
	h := NewFollowHandler(users, newFakeSessionStore())

	_, err := followRequest(t, h, a.ID, a.ID.Hex())
	code, msg := httpStatus(t, err)
	if code != http.StatusBadRequest || msg != "Cannot follow yourself" {
		t.Errorf("self-follow = (%d, %q), want (400, Cannot follow yourself)", code, msg)
	}
}

func TestToggleFollowUnknownTarget(t *testing.T) {
	users := newFakeUserRepo()
	a := users.add(models.User{Username: "a"})
	h := NewFollowHandler(users, newFakeSessionStore())

	_, err := followRequest(t, h, a.ID, primitive.NewObjectID().Hex())
	code, msg := httpStatus(t, err)
	if code != http.StatusNotFound || msg != "User not found" {
		t.Errorf("unknown target = (%d, %q), want (404, User not found)", code, msg)
	}
}

func TestListRelations(t *testing.T) {
	users := newFakeUserRepo()
	fan := users.add(models.User{Username: "fan"})
	star := users.add(models.User{Username: "star", Followers: []primitive.ObjectID{fan.ID}})
	h := NewFollowHandler(users, newFakeSessionStore())

	e := newEcho()
	c, rec := jsonRequest(e, http.MethodGet, "/users/"+star.ID.Hex()+"/followers", "")
	c.SetParamNames("id", "type")
	c.SetParamValues(star.ID.Hex(), "followers")
	if err := h.ListRelations(c); err != nil {
		t.Fatalf("ListRelations: %v", err)
	}
	body := decodeBody(t, rec)
	listed, ok := body["users"].([]interface{})
	if !ok || len(listed) != 1 {
		t.Fatalf("users = %v, want one follower", body["users"])
	}
}

func TestListRelationsValidation(t *testing.T) {
	users := newFakeUserRepo()
	a := users.add(models.User{Username: "a"})
	h := NewFollowHandler(users, newFakeSessionStore())
	e := newEcho()

	c, _ := jsonRequest(e, http.MethodGet, "/users/garbage/followers", "")
	c.SetParamNames("id", "type")
	c.SetParamValues("garbage", "followers")
	if code, _ := httpStatus(t, h.ListRelations(c)); code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d, want 400", code)
	}

	c, _ = jsonRequest(e, http.MethodGet, "/users/"+a.ID.Hex()+"/buddies", "")
	c.SetParamNames("id", "type")
	c.SetParamValues(a.ID.Hex(), "buddies")
	if code, _ := httpStatus(t, h.ListRelations(c)); code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d, want 400", code)
	}

	missing := primitive.NewObjectID()
	c, _ = jsonRequest(e, http.MethodGet, "/users/"+missing.Hex()+"/following", "")
	c.SetParamNames("id", "type")
	c.SetParamValues(missing.Hex(), "following")
	if code, _ := httpStatus(t, h.ListRelations(c)); code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", code)
	}
}
