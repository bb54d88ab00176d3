package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/versalles/versalles/platform"
)

func (a *API) ListForums(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	forums, err := a.store.Forums().List(ctx)
	if err != nil {
		mapError(w, err)
		return
	}
	if forums == nil {
		forums = []platform.Forum{}
	}
	writeJSON(w, http.StatusOK, forums)
}

func (a *API) ListThreads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	forumID := chi.URLParam(r, "forumID")
	if _, err := a.store.Forums().GetByID(ctx, forumID); err != nil {
		mapError(w, err)
		return
	}
	threads, err := a.store.Forums().ListThreads(ctx, forumID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPage(r, threads, platform.PageSizeForumThreads))
}

// CreateThread opens a thread and its opening post in one request.
func (a *API) CreateThread(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.ThreadForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	now := time.Now().UTC()
	thread := &platform.ForumThread{
		ID:        uuid.NewString(),
		ForumID:   chi.URLParam(r, "forumID"),
		AuthorID:  user.ID,
		Title:     form.Title,
		CreatedAt: now,
	}
	post := &platform.ForumPost{
		ID:        uuid.NewString(),
		ThreadID:  thread.ID,
		AuthorID:  user.ID,
		Content:   form.Content,
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Forums().CreateThread(ctx, thread); err != nil {
		mapError(w, err)
		return
	}
	if err := a.store.Forums().CreatePost(ctx, post); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (a *API) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	thread, err := a.store.Forums().GetThread(ctx, chi.URLParam(r, "threadID"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	threadID := chi.URLParam(r, "threadID")
	if _, err := a.store.Forums().GetThread(ctx, threadID); err != nil {
		mapError(w, err)
		return
	}
	posts, err := a.store.Forums().ListPosts(ctx, threadID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPage(r, posts, platform.PageSizeForumPosts))
}

func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.PostForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	post := &platform.ForumPost{
		ID:        uuid.NewString(),
		ThreadID:  chi.URLParam(r, "threadID"),
		AuthorID:  user.ID,
		Content:   form.Content,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Forums().CreatePost(ctx, post); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}
