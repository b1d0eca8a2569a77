package ports

// RepoLocker serializes merc commands on the same source repository
type RepoLocker interface {
	Lock(sourceRepoRoot string) (unlock func() error, err error)
}
