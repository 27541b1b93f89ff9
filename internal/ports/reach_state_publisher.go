package ports

import "context"

type ReachStatePublisher interface {
	Publish(ctx context.Context, working, failed []string) error
}
