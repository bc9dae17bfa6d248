package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"conversational-relay/internal/relay"
	"conversational-relay/internal/search"
	"conversational-relay/internal/session"
	"conversational-relay/pkg/llmprovider"
	"conversational-relay/pkg/splitter"
)

// Respond runs the pipeline for one inbound message. Rate rejection happens
// before any external call. Search failure and empty search results are
// non-fatal; only an exhausted provider chain surfaces as an error.
func (uc *implUseCase) Respond(ctx context.Context, in relay.Inbound) (relay.Reply, error) {
	requestID := uuid.NewString()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return relay.Reply{}, relay.ErrEmptyMessage
	}

	now := in.At
	if now.IsZero() {
		now = time.Now()
	}

	if !uc.limiter.Allow(in.UserID, now) {
		uc.l.Infof(ctx, "relay: throttled request_id=%s user=%s", requestID, in.UserID)
		return relay.Reply{}, relay.ErrThrottled
	}

	uc.sessions.Touch(in.UserID, now)
	history := uc.sessions.History(in.UserID)

	var searched bool
	var result search.Result
	if uc.searcher != nil && uc.sessions.SearchEnabled(in.UserID) && wantsFreshContext(text) {
		searched = true
		result = uc.searcher.Search(ctx, text)
		if result.Empty() {
			uc.l.Debugf(ctx, "relay: search returned nothing request_id=%s user=%s", requestID, in.UserID)
		} else {
			uc.l.Infof(ctx, "relay: search contributed %d entries request_id=%s sources=%v",
				len(result.Entries), requestID, result.Sources)
		}
	}

	req := &llmprovider.Request{
		Messages: buildMessages(now, history, result, text),
		Params:   uc.cfg.Params,
	}

	resp, err := uc.router.Complete(ctx, req)
	if err != nil {
		uc.l.Errorf(ctx, "relay: completion failed request_id=%s user=%s error=%v", requestID, in.UserID, err)
		return relay.Reply{}, err
	}

	uc.sessions.Append(in.UserID,
		session.Turn{Role: session.RoleUser, Text: text, Timestamp: now},
		session.Turn{Role: session.RoleAssistant, Text: resp.Text, Timestamp: time.Now()},
	)

	segments := splitter.Split(resp.Text, uc.cfg.MaxMessageLength)

	uc.l.Infof(ctx, "relay: replied request_id=%s user=%s provider=%s model=%s segments=%d searched=%t",
		requestID, in.UserID, resp.ProviderName, resp.ModelName, len(segments), searched)

	return relay.Reply{
		Segments: segments,
		Provider: resp.ProviderName,
		Model:    resp.ModelName,
		Searched: searched,
		Sources:  result.Sources,
	}, nil
}
