package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/orgchart/internal/mirror"
)

var errStoreClosed = errors.New("organization store closed unexpectedly")

// session is one command's conversation with the mirror.
type session struct {
	mirror *mirror.Mirror
	logger *slog.Logger
}

func (s *session) Post(req mirror.Request) { s.mirror.Post(req) }

func (s *session) Responses() <-chan mirror.Response { return s.mirror.Responses() }

// request posts req and waits for its reply.
func (s *session) request(ctx context.Context, req mirror.Request, want ...mirror.ResponseType) (mirror.Response, error) {
	s.Post(req)
	return s.await(ctx, want...)
}

// await returns the next response of one of the wanted types. An error
// response ends the wait; responses of other types are skipped.
func (s *session) await(ctx context.Context, want ...mirror.ResponseType) (mirror.Response, error) {
	for {
		select {
		case resp, ok := <-s.mirror.Responses():
			if !ok {
				return mirror.Response{}, errStoreClosed
			}
			if resp.Type == mirror.ResponseError {
				return resp, errors.New(resp.Message)
			}
			for _, t := range want {
				if resp.Type == t {
					return resp, nil
				}
			}
			s.logger.Debug("skipping response", "type", resp.Type)
		case <-ctx.Done():
			return mirror.Response{}, ctx.Err()
		}
	}
}

// Close waits for queued requests to finish. Responses nobody asked for are
// discarded.
func (s *session) Close() error {
	go func() {
		for range s.mirror.Responses() {
		}
	}()
	return s.mirror.Close()
}
