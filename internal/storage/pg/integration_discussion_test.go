package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

func TestCreateAndGetDiscussion(t *testing.T) {
	user := mustCreateUser(t, "disc-author@example.com")
	postId := mustCreatePost(t, user, "discussed")

	id, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId: postId,
		Author: user,
		Text:   "top level",
	})
	require.NoError(t, err)

	d, err := storage.GetDiscussion(id)
	require.NoError(t, err)
	assert.Equal(t, postId, d.PostId)
	assert.Equal(t, "top level", d.Text)
	assert.Equal(t, user.Id, d.Author.Id)
	assert.False(t, d.ParentId.Valid)
}

func TestCreateNestedDiscussion(t *testing.T) {
	user := mustCreateUser(t, "disc-nested@example.com")
	postId := mustCreatePost(t, user, "nested")

	parentId, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId: postId,
		Author: user,
		Text:   "parent",
	})
	require.NoError(t, err)

	childId, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId:   postId,
		Author:   user,
		ParentId: &parentId,
		Text:     "child",
	})
	require.NoError(t, err)

	child, err := storage.GetDiscussion(childId)
	require.NoError(t, err)
	require.True(t, child.ParentId.Valid)
	assert.Equal(t, parentId, child.ParentId.Int64)
}

func TestGetDiscussionNotFound(t *testing.T) {
	_, err := storage.GetDiscussion(999999)
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 404, e.StatusCode)
}

func TestGetDiscussionsByPostInCreationOrder(t *testing.T) {
	user := mustCreateUser(t, "disc-order@example.com")
	postId := mustCreatePost(t, user, "ordered")

	var ids []domain.DiscussionId
	for _, text := range []string{"first", "second", "third"} {
		id, err := storage.CreateDiscussion(domain.DiscussionCreationData{
			PostId: postId,
			Author: user,
			Text:   text,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	discussions, err := storage.GetDiscussionsByPost(postId)
	require.NoError(t, err)
	require.Len(t, discussions, 3)
	for i, d := range discussions {
		assert.Equal(t, ids[i], d.Id, "oldest discussion should come first")
	}
}

func TestDeleteDiscussionCascadesToChildren(t *testing.T) {
	user := mustCreateUser(t, "disc-cascade@example.com")
	postId := mustCreatePost(t, user, "cascading")

	parentId, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId: postId,
		Author: user,
		Text:   "parent",
	})
	require.NoError(t, err)

	childId, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId:   postId,
		Author:   user,
		ParentId: &parentId,
		Text:     "child",
	})
	require.NoError(t, err)

	require.NoError(t, storage.DeleteDiscussion(parentId))

	_, err = storage.GetDiscussion(childId)
	require.Error(t, err, "children should be removed with their parent")
}

func TestDeletePostCascadesToDiscussions(t *testing.T) {
	user := mustCreateUser(t, "disc-post-cascade@example.com")
	postId := mustCreatePost(t, user, "doomed with replies")

	id, err := storage.CreateDiscussion(domain.DiscussionCreationData{
		PostId: postId,
		Author: user,
		Text:   "reply",
	})
	require.NoError(t, err)

	require.NoError(t, storage.DeletePost(postId))

	_, err = storage.GetDiscussion(id)
	require.Error(t, err)
}
