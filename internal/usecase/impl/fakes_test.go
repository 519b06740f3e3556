package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hyperstream/internal/domain/entity"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/domain/service"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository. forcedErr lets a test inject a
// failure for one method by name.
type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	streams   map[uuid.UUID]*entity.Stream
	forcedErr map[string]error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*entity.User),
		streams:   make(map[uuid.UUID]*entity.Stream),
		forcedErr: make(map[string]error),
	}
}

func (f *fakeUserRepo) fail(method string) error {
	return f.forcedErr[method]
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if err := f.fail("FindByID"); err != nil {
		return nil, err
	}
	if user, ok := f.users[id]; ok {
		return user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, user := range f.users {
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByProviderID(_ context.Context, provider entity.AuthProvider, providerID string) (*entity.User, error) {
	for _, user := range f.users {
		switch provider {
		case entity.ProviderGoogle:
			if user.GoogleID != nil && *user.GoogleID == providerID {
				return user, nil
			}
		case entity.ProviderFacebook:
			if user.FacebookID != nil && *user.FacebookID == providerID {
				return user, nil
			}
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindRecommended(_ context.Context, userID uuid.UUID) ([]*entity.User, error) {
	if err := f.fail("FindRecommended"); err != nil {
		return nil, err
	}

	var out []*entity.User
	for _, user := range f.users {
		if user.ID != userID {
			out = append(out, user)
		}
	}

	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User, stream *entity.Stream) error {
	if err := f.fail("Create"); err != nil {
		return err
	}
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}

	f.users[user.ID] = user
	if stream != nil {
		f.streams[user.ID] = stream
	}

	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if err := f.fail("Update"); err != nil {
		return err
	}
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.users[user.ID] = user

	return nil
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID uuid.UUID, token *string) error {
	if err := f.fail("UpdateRefreshToken"); err != nil {
		return err
	}
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.RefreshToken = token

	return nil
}

func (f *fakeUserRepo) ReplaceRefreshToken(_ context.Context, userID uuid.UUID, expected string, token *string) (bool, error) {
	if err := f.fail("ReplaceRefreshToken"); err != nil {
		return false, err
	}
	user, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	if user.RefreshToken == nil || *user.RefreshToken != expected {
		return false, nil
	}
	user.RefreshToken = token

	return true, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash

	return nil
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, userID uuid.UUID) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsEmailVerified = true

	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)

	return nil
}

// fakeStreamRepo is an in-memory StreamRepository keyed by owner.
type fakeStreamRepo struct {
	streams map[uuid.UUID]*entity.Stream
}

func newFakeStreamRepo() *fakeStreamRepo {
	return &fakeStreamRepo{streams: make(map[uuid.UUID]*entity.Stream)}
}

func (f *fakeStreamRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Stream, error) {
	if stream, ok := f.streams[userID]; ok {
		return stream, nil
	}

	return nil, repository.ErrStreamNotFound
}

func (f *fakeStreamRepo) Update(_ context.Context, stream *entity.Stream) error {
	f.streams[stream.UserID] = stream

	return nil
}

type edge struct {
	from, to uuid.UUID
}

// fakeFollowRepo is an in-memory FollowRepository.
type fakeFollowRepo struct {
	follows map[edge]*entity.Follow
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[edge]*entity.Follow)}
}

func (f *fakeFollowRepo) Create(_ context.Context, follow *entity.Follow) error {
	key := edge{follow.FollowerID, follow.FollowingID}
	if _, ok := f.follows[key]; ok {
		return repository.ErrAlreadyFollowing
	}
	follow.ID = uuid.New()
	f.follows[key] = follow

	return nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error) {
	key := edge{followerID, followingID}
	follow, ok := f.follows[key]
	if !ok {
		return nil, repository.ErrFollowNotFound
	}
	delete(f.follows, key)

	return follow, nil
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followingID uuid.UUID) (bool, error) {
	_, ok := f.follows[edge{followerID, followingID}]

	return ok, nil
}

func (f *fakeFollowRepo) FindByFollower(_ context.Context, followerID uuid.UUID) ([]*entity.Follow, error) {
	var out []*entity.Follow
	for key, follow := range f.follows {
		if key.from == followerID {
			out = append(out, follow)
		}
	}

	return out, nil
}

// fakeBlockRepo is an in-memory BlockRepository.
type fakeBlockRepo struct {
	blocks map[edge]*entity.Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[edge]*entity.Block)}
}

func (f *fakeBlockRepo) Create(_ context.Context, block *entity.Block) error {
	key := edge{block.BlockerID, block.BlockedID}
	if _, ok := f.blocks[key]; ok {
		return repository.ErrAlreadyBlocked
	}
	block.ID = uuid.New()
	f.blocks[key] = block

	return nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, blockerID, blockedID uuid.UUID) error {
	key := edge{blockerID, blockedID}
	if _, ok := f.blocks[key]; !ok {
		return repository.ErrBlockNotFound
	}
	delete(f.blocks, key)

	return nil
}

func (f *fakeBlockRepo) Exists(_ context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	_, ok := f.blocks[edge{blockerID, blockedID}]

	return ok, nil
}

// fakeHasher hashes by prefixing, keeping assertions readable.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService mints sequence-numbered tokens so every call yields a
// distinct value, which the rotation tests rely on.
type fakeTokenService struct {
	seq    int
	access map[string]*service.AccessClaims
	fresh  map[string]*service.RefreshClaims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		access: make(map[string]*service.AccessClaims),
		fresh:  make(map[string]*service.RefreshClaims),
	}
}

func (f *fakeTokenService) GenerateAccessToken(userID uuid.UUID, email, username string) (string, error) {
	f.seq++
	token := fmt.Sprintf("access-%s-%d", userID, f.seq)
	f.access[token] = &service.AccessClaims{UserID: userID, Email: email, Username: username}

	return token, nil
}

func (f *fakeTokenService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	f.seq++
	token := fmt.Sprintf("refresh-%s-%d", userID, f.seq)
	f.fresh[token] = &service.RefreshClaims{UserID: userID}

	return token, nil
}

func (f *fakeTokenService) ValidateAccessToken(token string) (*service.AccessClaims, error) {
	if claims, ok := f.access[token]; ok {
		return claims, nil
	}

	return nil, service.ErrTokenInvalid
}

func (f *fakeTokenService) ValidateRefreshToken(token string) (*service.RefreshClaims, error) {
	if claims, ok := f.fresh[token]; ok {
		return claims, nil
	}

	return nil, service.ErrTokenInvalid
}

// fakeMailer records every send.
type fakeMailer struct {
	verificationSent []string
	resetSent        []string
	err              error
}

func (f *fakeMailer) SendVerificationEmail(_ context.Context, to, verificationURL string) error {
	if f.err != nil {
		return f.err
	}
	f.verificationSent = append(f.verificationSent, to+" "+verificationURL)

	return nil
}

func (f *fakeMailer) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	if f.err != nil {
		return f.err
	}
	f.resetSent = append(f.resetSent, to+" "+resetURL)

	return nil
}

// fakeStorage records stored objects.
type fakeStorage struct {
	keys []string
	err  error
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, content io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)

	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)

			break
		}
	}

	return nil
}

// sentTo reports whether any recorded send line starts with the address.
func sentTo(lines []string, email string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, email+" ") {
			return true
		}
	}

	return false
}
