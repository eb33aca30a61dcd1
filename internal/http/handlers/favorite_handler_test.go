package handlers

import (
	"net/http"
	"reflect"
	"testing"
)

func TestFavorites_ToggleAddRemove(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/me/favorites/11007/toggle", "alice", nil)
	wantStatus(t, w, http.StatusOK)
	var tr ToggleResponse
	decode(t, w, &tr)
	if !tr.Favorited || tr.RecipeID != "11007" {
		t.Fatalf("toggle on: %+v", tr)
	}

	wantStatus(t, e.do(http.MethodPut, "/me/favorites/11000", "alice", nil), http.StatusNoContent)
	// Idempotent.
	wantStatus(t, e.do(http.MethodPut, "/me/favorites/11000", "alice", nil), http.StatusNoContent)

	w = e.do(http.MethodGet, "/me/favorites/ids", "alice", nil)
	wantStatus(t, w, http.StatusOK)
	var ids FavoriteIDsResponse
	decode(t, w, &ids)
	if !reflect.DeepEqual(ids.IDs, []string{"11000", "11007"}) {
		t.Fatalf("ids=%v", ids.IDs)
	}

	w = e.do(http.MethodGet, "/me/favorites", "alice", nil)
	wantStatus(t, w, http.StatusOK)
	var list RecipesResponse
	decode(t, w, &list)
	if len(list.Recipes) != 2 || list.Recipes[0].Name != "Mojito" {
		t.Fatalf("materialized=%+v", list.Recipes)
	}

	w = e.do(http.MethodPost, "/me/favorites/11007/toggle", "alice", nil)
	decode(t, w, &tr)
	if tr.Favorited {
		t.Fatalf("toggle off: %+v", tr)
	}
	wantStatus(t, e.do(http.MethodDelete, "/me/favorites/11000", "alice", nil), http.StatusNoContent)

	w = e.do(http.MethodGet, "/me/favorites/ids", "alice", nil)
	decode(t, w, &ids)
	if len(ids.IDs) != 0 {
		t.Fatalf("expected empty set, got %v", ids.IDs)
	}
}

func TestFavorites_PerUser(t *testing.T) {
	e := newEnv(t)
	wantStatus(t, e.do(http.MethodPut, "/me/favorites/11007", "alice", nil), http.StatusNoContent)

	w := e.do(http.MethodGet, "/me/favorites/ids", "bob", nil)
	wantStatus(t, w, http.StatusOK)
	var ids FavoriteIDsResponse
	decode(t, w, &ids)
	if len(ids.IDs) != 0 {
		t.Fatalf("bob sees alice's favorites: %v", ids.IDs)
	}
}

func TestFavorites_Anonymous(t *testing.T) {
	e := newEnv(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me/favorites"},
		{http.MethodGet, "/me/favorites/ids"},
		{http.MethodPost, "/me/favorites/11007/toggle"},
		{http.MethodPut, "/me/favorites/11007"},
		{http.MethodDelete, "/me/favorites/11007"},
	} {
		wantCode(t, e.do(tc.method, tc.path, "", nil), http.StatusUnauthorized, ErrCodeUnauthorized)
	}
}
