package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const postsNS = "quill.posts"

func postDoc(id primitive.ObjectID, author, title string, tags []string, likes ...string) bson.D {
	tagArr := bson.A{}
	for _, tag := range tags {
		tagArr = append(tagArr, tag)
	}
	likeArr := bson.A{}
	for _, l := range likes {
		likeArr = append(likeArr, l)
	}
	created := primitive.NewDateTimeFromTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "author_id", Value: author},
		{Key: "title", Value: title},
		{Key: "content", Value: "body"},
		{Key: "tags", Value: tagArr},
		{Key: "cover_image_url", Value: "https://cdn.example.com/c.png"},
		{Key: "published", Value: true},
		{Key: "likes", Value: likeArr},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("CreatePost assigns id and empty sets", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		post := &models.Post{AuthorID: "alice", Title: "Hello", Content: "body"}
		require.NoError(mt, repo.CreatePost(context.Background(), post))
		assert.False(mt, post.ID.IsZero())
		assert.NotNil(mt, post.Likes)
		assert.NotNil(mt, post.Tags)
		assert.False(mt, post.CreatedAt.IsZero())
	})

	mt.Run("GetPostByID", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch,
			postDoc(id, "alice", "Hello", []string{"intro"}, "bob")))

		post, err := repo.GetPostByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, post.ID)
		assert.Equal(mt, []string{"intro"}, post.Tags)
		assert.True(mt, post.LikedBy("bob"))
	})

	mt.Run("GetPostByID not found", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch))

		_, err := repo.GetPostByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, models.IsNotFound(err))
	})

	mt.Run("malformed id is a validation error", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)

		_, err := repo.GetPostByID(context.Background(), "not-an-object-id")
		assert.True(mt, models.IsValidation(err))
		_, err = repo.ToggleLike(context.Background(), "xyz", "alice")
		assert.True(mt, models.IsValidation(err))
	})

	mt.Run("GetAllPosts", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch,
			postDoc(second, "bob", "Second", nil),
			postDoc(first, "alice", "First", []string{"go"})))

		posts, err := repo.GetAllPosts(context.Background(), 0, 10)
		require.NoError(mt, err)
		require.Len(mt, posts, 2)
		assert.Equal(mt, "Second", posts[0].Title)
		assert.Equal(mt, "First", posts[1].Title)
	})

	mt.Run("GetPostsByAuthorID empty", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch))

		posts, err := repo.GetPostsByAuthorID(context.Background(), "nobody", 0, 0)
		require.NoError(mt, err)
		assert.NotNil(mt, posts)
		assert.Empty(mt, posts)
	})

	mt.Run("ToggleLike returns committed document", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: postDoc(id, "alice", "Hello", nil, "carol", "bob")},
		})

		post, err := repo.ToggleLike(context.Background(), id.Hex(), "bob")
		require.NoError(mt, err)
		assert.Len(mt, post.Likes, 2)
		assert.True(mt, post.LikedBy("bob"))
	})

	mt.Run("ToggleLike is a single pipeline findAndModify", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: postDoc(id, "alice", "Hello", nil, "bob")},
		})

		_, err := repo.ToggleLike(context.Background(), id.Hex(), "bob")
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		assert.Equal(mt, "posts", started.Command.Lookup("findAndModify").StringValue())

		update := started.Command.Lookup("update")
		require.Equal(mt, bson.TypeArray, update.Type, "update must be an aggregation pipeline")
		pipeline := update.String()
		for _, op := range []string{`"likes"`, `"$cond"`, `"$in"`, `"$filter"`, `"$concatArrays"`} {
			assert.Contains(mt, pipeline, op)
		}
		assert.Contains(mt, pipeline, `"bob"`)

		assert.Nil(mt, mt.GetStartedEvent(), "toggle must not issue a separate read or write")
	})

	mt.Run("ToggleLike on missing post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.ToggleLike(context.Background(), primitive.NewObjectID().Hex(), "bob")
		assert.True(mt, models.IsNotFound(err))
	})

	mt.Run("UpdatePost", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID().Hex()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		require.NoError(mt, repo.UpdatePost(context.Background(), id, &models.Post{Title: "New"}))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		assert.True(mt, models.IsNotFound(repo.UpdatePost(context.Background(), id, &models.Post{Title: "New"})))
	})

	mt.Run("DeletePost", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID().Hex()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, repo.DeletePost(context.Background(), id))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.True(mt, models.IsNotFound(repo.DeletePost(context.Background(), id)))
	})

	mt.Run("server error is transient", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "shutting down",
		}))

		_, err := repo.GetAllPosts(context.Background(), 0, 0)
		assert.True(mt, models.IsTransient(err))
	})
}
