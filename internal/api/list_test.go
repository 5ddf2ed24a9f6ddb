package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createList(t *testing.T, env *testEnv, token, name, typ string) uuid.UUID {
	t.Helper()

	w := doJSON(t, env, http.MethodPost, "/v1/lists", token, map[string]any{
		"name": name,
		"type": typ,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	decodeBody(t, w, &created)
	return created.ID
}

func TestToggleAddsThenRemoves(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, uuid.New())

	listID := createList(t, env, token, "Prospects", "company")
	target := uuid.New()

	w := doJSON(t, env, http.MethodPost, "/v1/lists/"+listID.String()+"/toggle", token, map[string]any{
		"target_id": target.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Array []uuid.UUID `json:"array"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, []uuid.UUID{target}, resp.Array)

	// Same member again flips it back out.
	w = doJSON(t, env, http.MethodPost, "/v1/lists/"+listID.String()+"/toggle", token, map[string]any{
		"target_id": target.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp.Array = nil
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Array)
}

func TestToggleOnForeignListIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := tokenFor(t, uuid.New())
	intruder := tokenFor(t, uuid.New())

	listID := createList(t, env, owner, "Private targets", "contact")

	w := doJSON(t, env, http.MethodPost, "/v1/lists/"+listID.String()+"/toggle", intruder, map[string]any{
		"target_id": uuid.New().String(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleRequiresTargetID(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, uuid.New())

	listID := createList(t, env, token, "Leads to call", "lead")

	w := doJSON(t, env, http.MethodPost, "/v1/lists/"+listID.String()+"/toggle", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, env, http.MethodPost, "/v1/lists/"+listID.String()+"/toggle", token, map[string]any{
		"target_id": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
