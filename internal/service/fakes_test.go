package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ilamaran/vinavidai/internal/model"
)

// In-memory repository fakes shared by the service tests.

type fakeQuestionRepo struct {
	questions map[uuid.UUID]*model.Question
	order     []uuid.UUID
	seq       int64

	createErr  error
	publishErr error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uuid.UUID]*model.Question)}
}

func (f *fakeQuestionRepo) Create(q *model.Question) error {
	if f.createErr != nil {
		return f.createErr
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	f.seq++
	q.Seq = f.seq
	q.CreatedAt = time.Now()
	stored := *q
	f.questions[q.ID] = &stored
	f.order = append(f.order, q.ID)
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uuid.UUID) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *q
	return &out, nil
}

func (f *fakeQuestionRepo) FindAll() ([]model.Question, error) {
	out := make([]model.Question, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.questions[id])
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindActive(now time.Time) ([]model.Question, error) {
	var out []model.Question
	for _, id := range f.order {
		if f.questions[id].ActiveAt(now) {
			out = append(out, *f.questions[id])
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(q *model.Question) error {
	if _, ok := f.questions[q.ID]; !ok {
		return model.ErrNotFound
	}
	stored := *q
	f.questions[q.ID] = &stored
	return nil
}

func (f *fakeQuestionRepo) PublishBatch(ids []uuid.UUID, release, disappear time.Time) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	// Validate the whole set before touching anything, like the transactional
	// implementation does.
	for _, id := range ids {
		q, ok := f.questions[id]
		if !ok {
			return model.ErrNotFound
		}
		if q.Status != model.QuestionStatusDraft {
			return model.ErrQuestionPublished
		}
	}
	for _, id := range ids {
		q := f.questions[id]
		q.Status = model.QuestionStatusPublished
		r, d := release, disappear
		q.ReleaseDate = &r
		q.DisappearDate = &d
	}
	return nil
}

func (f *fakeQuestionRepo) Delete(ids []uuid.UUID) error {
	for _, id := range ids {
		if _, ok := f.questions[id]; !ok {
			return model.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(f.questions, id)
		for i, ordered := range f.order {
			if ordered == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakeQuestionRepo) CountByStatus(status model.QuestionStatus) (int64, error) {
	var count int64
	for _, q := range f.questions {
		if q.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeQuestionRepo) Count() (int64, error) {
	return int64(len(f.questions)), nil
}

type fakeScoreRepo struct {
	records []*model.ScoreRecord

	createErr   error
	createCalls int
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{}
}

func (f *fakeScoreRepo) Create(record *model.ScoreRecord) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	stored := *record
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeScoreRepo) FindByID(id uuid.UUID) (*model.ScoreRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeScoreRepo) FindByUser(userID uuid.UUID) ([]model.ScoreRecord, error) {
	var out []model.ScoreRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) FindAll() ([]model.ScoreRecord, error) {
	out := make([]model.ScoreRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeScoreRepo) ExistsForWindow(userID uuid.UUID, now time.Time) (bool, error) {
	for _, r := range f.records {
		if r.UserID == userID && !now.Before(r.WindowRelease) && now.Before(r.WindowDisappear) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScoreRepo) Count() (int64, error) {
	return int64(len(f.records)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
	order []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	f.order = append(f.order, user.ID)
	return nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) FindByIDs(ids []uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	username = strings.ToLower(username)
	for _, u := range f.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	out := make([]model.User, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.users[id])
	}
	return out, nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.users, id)
	for i, ordered := range f.order {
		if ordered == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeUserRepo) Count() (int64, error) {
	return int64(len(f.users)), nil
}

type fakeNoticeRepo struct {
	notices    map[uuid.UUID]*model.Notice
	order      []uuid.UUID
	dismissals map[uuid.UUID]map[uuid.UUID]bool // noticeID -> userID
}

func newFakeNoticeRepo() *fakeNoticeRepo {
	return &fakeNoticeRepo{
		notices:    make(map[uuid.UUID]*model.Notice),
		dismissals: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeNoticeRepo) Create(notice *model.Notice) error {
	if notice.ID == uuid.Nil {
		notice.ID = uuid.New()
	}
	notice.CreatedAt = time.Now()
	stored := *notice
	f.notices[notice.ID] = &stored
	f.order = append(f.order, notice.ID)
	return nil
}

func (f *fakeNoticeRepo) FindByID(id uuid.UUID) (*model.Notice, error) {
	n, ok := f.notices[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *n
	return &out, nil
}

func (f *fakeNoticeRepo) FindAll() ([]model.Notice, error) {
	out := make([]model.Notice, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.notices[id])
	}
	return out, nil
}

func (f *fakeNoticeRepo) FindVisibleToUser(userID uuid.UUID) ([]model.Notice, error) {
	var out []model.Notice
	for _, id := range f.order {
		n := f.notices[id]
		if n.Recipient != model.NoticeRecipientGlobal && n.Recipient != userID.String() {
			continue
		}
		if f.dismissals[n.ID][userID] {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNoticeRepo) Dismiss(noticeID, userID uuid.UUID) error {
	if _, ok := f.notices[noticeID]; !ok {
		return model.ErrNotFound
	}
	if f.dismissals[noticeID] == nil {
		f.dismissals[noticeID] = make(map[uuid.UUID]bool)
	}
	f.dismissals[noticeID][userID] = true
	return nil
}

func (f *fakeNoticeRepo) Delete(id uuid.UUID) error {
	if _, ok := f.notices[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.notices, id)
	for i, ordered := range f.order {
		if ordered == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeClock is a mutable clock for deterministic session timing.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func ts(t string) time.Time {
	parsed, err := time.Parse(time.RFC3339, t)
	if err != nil {
		panic(err)
	}
	return parsed
}
