package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the Mongo implementations, including
// the unique-index conflicts the services rely on.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PersonalInfo.Email == user.PersonalInfo.Email || u.PersonalInfo.Username == user.PersonalInfo.Username {
			return apperr.Conflict("email or username already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.JoinedAt = time.Now()
	if user.Blogs == nil {
		user.Blogs = []primitive.ObjectID{}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PersonalInfo.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PersonalInfo.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PersonalInfo.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) RegisterBlog(_ context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.AccountInfo.TotalPosts += postsDelta
		u.Blogs = append(u.Blogs, blogID)
	}
	return nil
}

func (r *fakeUserRepo) UnregisterBlog(_ context.Context, userID, blogID primitive.ObjectID, postsDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.AccountInfo.TotalPosts -= postsDelta
		blogs := u.Blogs[:0]
		for _, id := range u.Blogs {
			if id != blogID {
				blogs = append(blogs, id)
			}
		}
		u.Blogs = blogs
	}
	return nil
}

func (r *fakeUserRepo) IncrementTotalReads(_ context.Context, userID primitive.ObjectID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.AccountInfo.TotalReads += delta
	}
	return nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.PersonalInfo.Username), strings.ToLower(query)) {
			out = append(out, models.User{
				ID: u.ID,
				PersonalInfo: models.PersonalInfo{
					Fullname:   u.PersonalInfo.Fullname,
					Username:   u.PersonalInfo.Username,
					ProfileImg: u.PersonalInfo.ProfileImg,
				},
			})
			if int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeBlogRepo struct {
	mu    sync.Mutex
	blogs map[primitive.ObjectID]*models.Blog
	now   time.Time
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[primitive.ObjectID]*models.Blog), now: time.Now()}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.BlogID == blog.BlogID {
			return apperr.Conflict("blog id already exists")
		}
	}
	blog.ID = primitive.NewObjectID()
	// Monotonic publish times so "newest first" assertions are deterministic.
	r.now = r.now.Add(time.Second)
	blog.PublishedAt = r.now
	if blog.Comments == nil {
		blog.Comments = []primitive.ObjectID{}
	}
	cp := *blog
	r.blogs[blog.ID] = &cp
	return nil
}

func (r *fakeBlogRepo) GetBlogByBlogID(_ context.Context, blogID string) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.BlogID == blogID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("blog not found")
}

func (r *fakeBlogRepo) UpdateContent(_ context.Context, blogID string, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.BlogID == blogID {
			b.Title = blog.Title
			b.Des = blog.Des
			b.Banner = blog.Banner
			b.Content = blog.Content
			b.Tags = blog.Tags
			b.Draft = blog.Draft
			return nil
		}
	}
	return apperr.NotFound("blog not found")
}

func (r *fakeBlogRepo) IncrementReadsAndGet(_ context.Context, blogID string, delta int64) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.BlogID == blogID {
			b.Activity.TotalReads += delta
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("blog not found")
}

func (r *fakeBlogRepo) AttachComment(_ context.Context, blogID, commentID primitive.ObjectID, parentDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[blogID]; ok {
		b.Comments = append(b.Comments, commentID)
		b.Activity.TotalComments++
		b.Activity.TotalParentComments += parentDelta
	}
	return nil
}

func (r *fakeBlogRepo) IncrementLikesAndGet(_ context.Context, blogID primitive.ObjectID, delta int64) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[blogID]; ok {
		b.Activity.TotalLikes += delta
		cp := *b
		return &cp, nil
	}
	return nil, apperr.NotFound("blog not found")
}

func (r *fakeBlogRepo) SetActivity(_ context.Context, blogID primitive.ObjectID, activity models.BlogActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[blogID]; ok {
		b.Activity.TotalLikes = activity.TotalLikes
		b.Activity.TotalComments = activity.TotalComments
		b.Activity.TotalParentComments = activity.TotalParentComments
	}
	return nil
}

func (r *fakeBlogRepo) published() []models.Blog {
	var out []models.Blog
	for _, b := range r.blogs {
		if !b.Draft {
			out = append(out, *b)
		}
	}
	return out
}

func page(blogs []models.Blog, skip, limit int64) []models.Blog {
	if skip >= int64(len(blogs)) {
		return nil
	}
	blogs = blogs[skip:]
	if limit < int64(len(blogs)) {
		blogs = blogs[:limit]
	}
	return blogs
}

func (r *fakeBlogRepo) GetLatest(_ context.Context, skip, limit int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blogs := r.published()
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].PublishedAt.After(blogs[j].PublishedAt)
	})
	return page(blogs, skip, limit), nil
}

func (r *fakeBlogRepo) GetTrending(_ context.Context, limit int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blogs := r.published()
	sort.Slice(blogs, func(i, j int) bool {
		a, b := blogs[i], blogs[j]
		if a.Activity.TotalReads != b.Activity.TotalReads {
			return a.Activity.TotalReads > b.Activity.TotalReads
		}
		if a.Activity.TotalLikes != b.Activity.TotalLikes {
			return a.Activity.TotalLikes > b.Activity.TotalLikes
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
	return page(blogs, 0, limit), nil
}

func matchesFilter(b models.Blog, filter repositories.BlogFilter) bool {
	if filter.ExcludeBlogID != "" && b.BlogID == filter.ExcludeBlogID {
		return false
	}
	switch {
	case filter.Tag != "":
		for _, tag := range b.Tags {
			if tag == filter.Tag {
				return true
			}
		}
		return false
	case filter.Query != "":
		return strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Query))
	case filter.Author != nil:
		return b.Author == *filter.Author
	}
	return true
}

func (r *fakeBlogRepo) Search(_ context.Context, filter repositories.BlogFilter, skip, limit int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blogs []models.Blog
	for _, b := range r.published() {
		if matchesFilter(b, filter) {
			blogs = append(blogs, b)
		}
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].PublishedAt.After(blogs[j].PublishedAt)
	})
	return page(blogs, skip, limit), nil
}

func (r *fakeBlogRepo) Count(_ context.Context, filter repositories.BlogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.published() {
		if matchesFilter(b, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBlogRepo) GetByAuthor(_ context.Context, author primitive.ObjectID, draft bool, query string, skip, limit int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blogs []models.Blog
	for _, b := range r.blogs {
		if b.Author == author && b.Draft == draft {
			if query != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(query)) {
				continue
			}
			blogs = append(blogs, *b)
		}
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].PublishedAt.After(blogs[j].PublishedAt)
	})
	return page(blogs, skip, limit), nil
}

func (r *fakeBlogRepo) CountByAuthor(ctx context.Context, author primitive.ObjectID, draft bool, query string) (int64, error) {
	blogs, err := r.GetByAuthor(ctx, author, draft, query, 0, int64(len(r.blogs)))
	if err != nil {
		return 0, err
	}
	return int64(len(blogs)), nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, blogID string) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.blogs {
		if b.BlogID == blogID {
			cp := *b
			delete(r.blogs, id)
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("blog not found")
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []models.Comment
	now      time.Time
}

func newFakeCommentRepo() *fakeCommentRepo { return &fakeCommentRepo{now: time.Now()} }

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	r.now = r.now.Add(time.Second)
	comment.CommentedAt = r.now
	if comment.Children == nil {
		comment.Children = []primitive.ObjectID{}
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetCommentsByBlogID(_ context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.BlogID == blogID && !c.IsReply {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CommentedAt.After(out[j].CommentedAt)
	})
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCommentRepo) CountByBlogID(_ context.Context, blogID primitive.ObjectID, parentOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.BlogID == blogID && (!parentOnly || !c.IsReply) {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) DeleteByBlogID(_ context.Context, blogID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	for _, c := range r.comments {
		if c.BlogID != blogID {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
	now           time.Time

	// conflictNextLike simulates losing the unique-index race: the next like
	// notification insert fails with a conflict.
	conflictNextLike bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{now: time.Now()}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.Type == models.NotificationLike {
		if r.conflictNextLike {
			r.conflictNextLike = false
			return apperr.Conflict("notification already exists")
		}
		for _, n := range r.notifications {
			if n.Type == models.NotificationLike && n.User == notification.User && n.Blog == notification.Blog {
				return apperr.Conflict("notification already exists")
			}
		}
	}
	notification.ID = primitive.NewObjectID()
	r.now = r.now.Add(time.Second)
	notification.CreatedAt = r.now
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) LikeExists(_ context.Context, userID, blogID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.Type == models.NotificationLike && n.User == userID && n.Blog == blogID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) DeleteLike(_ context.Context, userID, blogID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.Type == models.NotificationLike && n.User == userID && n.Blog == blogID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) CountLikes(_ context.Context, blogID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.Type == models.NotificationLike && n.Blog == blogID {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) HasUnseen(_ context.Context, recipientID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.NotificationFor == recipientID && !n.Seen && n.User != recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipientID primitive.ObjectID, filter string, skip, limit int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.NotificationFor != recipientID || n.User == recipientID {
			continue
		}
		if filter != "" && filter != "all" && n.Type != filter {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, filter string) (int64, error) {
	all, err := r.GetByRecipient(ctx, recipientID, filter, 0, int64(len(r.notifications)))
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *fakeNotificationRepo) MarkSeen(_ context.Context, notificationID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].Seen = true
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

func (r *fakeNotificationRepo) DeleteByBlogID(_ context.Context, blogID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Blog != blogID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

// fakeVerifier returns canned federated claims, or an error when set.
type fakeVerifier struct {
	claims *FederatedClaims
	err    error
}

func (v *fakeVerifier) Verify(context.Context, string) (*FederatedClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}
