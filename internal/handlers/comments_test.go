package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCountAnnotation(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	commenter := createUser(t, db, "bob")
	category := createCategory(t, db, "travel", true)

	chatty := createPost(t, db, "chatty post", author, category, true, time.Now().Add(-time.Hour))
	createPost(t, db, "quiet post", author, category, true, time.Now().Add(-2*time.Hour))

	for i := 0; i < 3; i++ {
		createComment(t, db, chatty, commenter, fmt.Sprintf("comment %d", i))
	}

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "3 comment(s)")
	assert.Contains(t, body, "0 comment(s)")
}

func TestCommentCreate(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	commenter := createUser(t, db, "bob")
	category := createCategory(t, db, "travel", true)
	post := createPost(t, db, "a post", author, category, true, time.Now().Add(-time.Hour))

	form := url.Values{}
	form.Set("text", "well said")

	w := postForm(r, postURL(post)+"/comment", form, sessionCookie(t, commenter))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postURL(post), w.Header().Get("Location"))

	var count int64
	db.Table("comments").Where("post_id = ? AND author_id = ? AND text = ?",
		post.ID, commenter.ID, "well said").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	category := createCategory(t, db, "travel", true)
	post := createPost(t, db, "a post", author, category, true, time.Now().Add(-time.Hour))

	form := url.Values{}
	form.Set("text", "drive-by comment")

	w := postForm(r, postURL(post)+"/comment", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login"))

	var count int64
	db.Table("comments").Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCommentCreateOnMissingPost(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	commenter := createUser(t, db, "bob")

	form := url.Values{}
	form.Set("text", "shouting into the void")

	w := postForm(r, "/posts/424242/comment", form, sessionCookie(t, commenter))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentUpdateByNonOwnerIsRejected(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	owner := createUser(t, db, "victor")
	intruder := createUser(t, db, "ulrich")
	category := createCategory(t, db, "travel", true)
	post := createPost(t, db, "a post", author, category, true, time.Now().Add(-time.Hour))
	comment := createComment(t, db, post, owner, "original comment")

	form := url.Values{}
	form.Set("text", "defaced")

	path := fmt.Sprintf("%s/edit_comment/%d", postURL(post), comment.ID)
	w := postForm(r, path, form, sessionCookie(t, intruder))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postURL(post), w.Header().Get("Location"))
	assert.True(t, hasFlash(w))

	var text string
	db.Table("comments").Where("id = ?", comment.ID).Select("text").Scan(&text)
	assert.Equal(t, "original comment", text)
}

func TestCommentUpdateByOwner(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	owner := createUser(t, db, "victor")
	category := createCategory(t, db, "travel", true)
	post := createPost(t, db, "a post", author, category, true, time.Now().Add(-time.Hour))
	comment := createComment(t, db, post, owner, "first draft")

	form := url.Values{}
	form.Set("text", "second draft")

	path := fmt.Sprintf("%s/edit_comment/%d", postURL(post), comment.ID)
	w := postForm(r, path, form, sessionCookie(t, owner))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postURL(post), w.Header().Get("Location"))

	var text string
	db.Table("comments").Where("id = ?", comment.ID).Select("text").Scan(&text)
	assert.Equal(t, "second draft", text)
}

func TestCommentDelete(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	author := createUser(t, db, "alice")
	owner := createUser(t, db, "victor")
	category := createCategory(t, db, "travel", true)
	post := createPost(t, db, "a post", author, category, true, time.Now().Add(-time.Hour))
	comment := createComment(t, db, post, owner, "regrettable")

	path := fmt.Sprintf("%s/delete_comment/%d", postURL(post), comment.ID)
	w := postForm(r, path, url.Values{}, sessionCookie(t, owner))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postURL(post), w.Header().Get("Location"))

	var count int64
	db.Table("comments").Count(&count)
	assert.EqualValues(t, 0, count)
}
