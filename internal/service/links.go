package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
	"github.com/steveyegge/beads/internal/validation"
)

// LinkView pairs a canonical stored link with the spelling a caller asked
// about (dep list A prints "blocked_by B" even though the row stored is
// "B blocks A"), per scenario S4.
type LinkView struct {
	To   string
	Type types.LinkType
}

// DepAdd canonicalizes typ, checks the blocking subgraph for a would-be
// cycle (only blocking kinds are checked; informational links never
// participate), and persists the link plus a link_added event.
func (s *Service) DepAdd(ctx context.Context, from, to string, typ types.LinkType, actor string) error {
	ctx, span := s.startSpan(ctx, "DepAdd",
		attribute.String("link.from", from), attribute.String("link.to", to), attribute.String("link.type", string(typ)))
	var err error
	defer func() { endSpan(span, err) }()

	if actor == "" {
		actor = s.actor
	}

	raw := types.Link{From: from, To: to, Type: typ}
	if verr := validation.ValidateLink(raw); verr != nil {
		switch {
		case errors.Is(verr, validation.ErrUnknownLinkType):
			err = fmt.Errorf("%w: %v", ErrUnknownLinkType, verr)
		case errors.Is(verr, validation.ErrSelfLink):
			err = fmt.Errorf("%w: %v", ErrSelfLink, verr)
		default:
			err = fmt.Errorf("%w: %v", ErrInvalidField, verr)
		}
		return err
	}
	canon := raw.Canonicalize()
	canon.CreatedAt = s.clock.Now()

	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, gerr := tx.GetIssue(ctx, canon.From); gerr != nil {
			return translateStoreErr(gerr)
		}
		if _, gerr := tx.GetIssue(ctx, canon.To); gerr != nil {
			return translateStoreErr(gerr)
		}

		if canon.Type.IsBlocking() {
			engine, eerr := s.buildEngine(ctx, tx)
			if eerr != nil {
				return eerr
			}
			if cerr := engine.CheckCycle(canon.From, canon.To); cerr != nil {
				return wrapGraphErr(cerr)
			}
		}

		if perr := tx.PutLink(ctx, canon); perr != nil {
			if errors.Is(perr, storage.ErrAlreadyExists) {
				return fmt.Errorf("%w: %s -> %s (%s)", ErrDuplicateLink, canon.From, canon.To, canon.Type)
			}
			return translateStoreErr(perr)
		}
		if eerr := tx.AppendEvent(ctx, &types.Event{
			IssueID: canon.From, Kind: types.EventLinkAdded,
			Field: string(canon.Type), After: canon.To,
			Timestamp: canon.CreatedAt, Actor: actor,
		}); eerr != nil {
			return translateStoreErr(eerr)
		}
		return nil
	})
	return err
}

// DepRemove deletes a canonical link and appends a link_removed event. The
// caller's (from, to, type) is canonicalized first, so removing either
// spelling of an inverse pair works.
func (s *Service) DepRemove(ctx context.Context, from, to string, typ types.LinkType, actor string) error {
	ctx, span := s.startSpan(ctx, "DepRemove",
		attribute.String("link.from", from), attribute.String("link.to", to), attribute.String("link.type", string(typ)))
	var err error
	defer func() { endSpan(span, err) }()

	if actor == "" {
		actor = s.actor
	}
	canon := types.Link{From: from, To: to, Type: typ}.Canonicalize()

	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		if derr := tx.DeleteLink(ctx, canon.From, canon.To, canon.Type); derr != nil {
			return translateStoreErr(derr)
		}
		return translateStoreErr(tx.AppendEvent(ctx, &types.Event{
			IssueID: canon.From, Kind: types.EventLinkRemoved,
			Field: string(canon.Type), Before: canon.To,
			Timestamp: s.clock.Now(), Actor: actor,
		}))
	})
	return err
}

// DepList returns every link touching id, in the spelling relative to id:
// links stored as "id blocks X" surface as {X, blocks}; links stored as
// "Y blocks id" surface as {Y, blocked_by} — the inverse spelling scenario
// S4 requires dep list to show from the queried issue's point of view.
func (s *Service) DepList(ctx context.Context, id string) ([]LinkView, error) {
	ctx, span := s.startSpan(ctx, "DepList", attribute.String("issue.id", id))
	var err error
	defer func() { endSpan(span, err) }()

	var out []LinkView
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		from, ferr := tx.LinksFrom(ctx, id)
		if ferr != nil {
			return translateStoreErr(ferr)
		}
		for _, l := range from {
			out = append(out, LinkView{To: l.To, Type: l.Type})
		}
		to, terr := tx.LinksTo(ctx, id)
		if terr != nil {
			return translateStoreErr(terr)
		}
		for _, l := range to {
			out = append(out, LinkView{To: l.From, Type: inverseSpellingFor(l.Type)})
		}
		return nil
	})
	return out, err
}

// inverseSpellingFor returns the spelling a link of canonical type typ
// should be displayed as when viewed from its To endpoint.
func inverseSpellingFor(typ types.LinkType) types.LinkType {
	switch typ {
	case types.LinkBlocks:
		return types.LinkBlockedBy
	case types.LinkDuplicates:
		return types.LinkDuplicatedBy
	case types.LinkParentOf:
		return types.LinkChildOf
	case types.LinkClones:
		return types.LinkClonedBy
	case types.LinkCausedBy:
		return types.LinkCauses
	case types.LinkFixes:
		return types.LinkFixedBy
	case types.LinkDiscovers:
		return types.LinkDiscoveredBy
	default:
		return typ // relates_to, supersedes have no distinct inverse spelling
	}
}
