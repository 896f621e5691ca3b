package service

// AvatarResolver derives the avatar reference stored for a user. The result depends on the
// email only, so re-registering the same address always yields the same avatar.
type AvatarResolver interface {
	AvatarURL(email string) string
}
