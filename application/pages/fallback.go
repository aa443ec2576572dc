package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// actionFunc is applied to a located element
type actionFunc[T any] func(ctx context.Context, el interfaces.Element) (T, error)

// locate narrows q to its first match and waits briefly for it to attach.
// found is false when nothing matched; err is reserved for driver faults.
func (b *Base) locate(ctx context.Context, q entities.Query) (interfaces.Element, bool, error) {
	el := b.driver.Resolve(q).First()
	if err := el.WaitFor(ctx, b.timeouts.Short); err != nil {
		if errors.Is(err, entities.ErrElementNotFound) || errors.Is(err, entities.ErrTimeout) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return el, true, nil
}

func tryStrategy[T any](ctx context.Context, b *Base, q entities.Query, action actionFunc[T]) (T, error) {
	var zero T
	el, found, err := b.locate(ctx, q)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("%w: %s", entities.ErrElementNotFound, q)
	}
	return action(ctx, el)
}

// attempt applies action to the named element through its semantic locator
// and, if that fails in any way, through its structural selector. It absorbs
// exactly one failure; when both strategies fail the result is a
// *entities.ResolutionError.
func attempt[T any](ctx context.Context, b *Base, els Elements, name string, op entities.InteractionType, action actionFunc[T]) (T, error) {
	var zero T
	res, ok := els.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("%s: no resolution for element %q", els.Page(), name)
	}

	log := b.logger.WithFields(logrus.Fields{
		"page":    els.Page(),
		"element": name,
		"op":      op,
	})

	var semanticErr error
	if !res.Semantic.IsZero() {
		v, err := tryStrategy(ctx, b, res.Semantic, action)
		if err == nil {
			log.WithField("strategy", entities.StrategySemantic).Debug("Interaction succeeded")
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		semanticErr = err
		log.WithField("strategy", entities.StrategySemantic).Debugf("Falling back to structural selector: %v", err)
	}

	if strings.TrimSpace(res.Structural) == "" {
		return zero, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr}
	}

	v, err := tryStrategy(ctx, b, entities.BySelector(res.Structural), action)
	if err != nil {
		return zero, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr, Structural: err}
	}
	log.WithField("strategy", entities.StrategyStructural).Debug("Interaction succeeded")
	return v, nil
}

// run is attempt for actions without a result
func run(ctx context.Context, b *Base, els Elements, name string, op entities.InteractionType, action func(ctx context.Context, el interfaces.Element) error) error {
	_, err := attempt(ctx, b, els, name, op, func(ctx context.Context, el interfaces.Element) (struct{}, error) {
		return struct{}{}, action(ctx, el)
	})
	return err
}

// observe is attempt for boolean reads: any failure reads as false,
// meaning "not observed" rather than "confirmed absent".
func observe(ctx context.Context, b *Base, els Elements, name string, op entities.InteractionType, check actionFunc[bool]) bool {
	v, err := attempt(ctx, b, els, name, op, check)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"page":    els.Page(),
			"element": name,
			"op":      op,
		}).Debugf("Observation degraded to false: %v", err)
		return false
	}
	return v
}

// count returns the number of matches of the named element. The structural
// selector is consulted when the semantic locator matches nothing.
func count(ctx context.Context, b *Base, els Elements, name string) (int, error) {
	res, ok := els.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%s: no resolution for element %q", els.Page(), name)
	}

	log := b.logger.WithFields(logrus.Fields{
		"page":    els.Page(),
		"element": name,
		"op":      entities.InteractionCount,
	})

	var semanticErr error
	if !res.Semantic.IsZero() {
		n, err := b.driver.Resolve(res.Semantic).Count(ctx)
		if err == nil && n > 0 {
			log.WithField("strategy", entities.StrategySemantic).Debugf("Counted %d", n)
			return n, nil
		}
		semanticErr = err
	}
	if strings.TrimSpace(res.Structural) == "" {
		if semanticErr != nil {
			return 0, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr}
		}
		return 0, nil
	}

	n, err := b.driver.Resolve(entities.BySelector(res.Structural)).Count(ctx)
	if err != nil {
		return 0, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr, Structural: err}
	}
	log.WithField("strategy", entities.StrategyStructural).Debugf("Counted %d", n)
	return n, nil
}

// trimmedText reads the text of el without surrounding whitespace
func (b *Base) trimmedText(ctx context.Context, el interfaces.Element) (string, error) {
	text, err := b.Text(ctx, el)
	return strings.TrimSpace(text), err
}

// collect snapshots every match of the named element, semantic locator first
func collect(ctx context.Context, b *Base, els Elements, name string) ([]entities.PageElement, error) {
	res, ok := els.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: no resolution for element %q", els.Page(), name)
	}

	var semanticErr error
	queries := make([]entities.Query, 0, 2)
	if !res.Semantic.IsZero() {
		queries = append(queries, res.Semantic)
	}
	if strings.TrimSpace(res.Structural) != "" {
		queries = append(queries, entities.BySelector(res.Structural))
	}
	for _, q := range queries {
		texts, err := b.driver.Resolve(q).AllTextContents(ctx)
		if err != nil {
			if q.Semantic() {
				semanticErr = err
				continue
			}
			return nil, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr, Structural: err}
		}
		if len(texts) == 0 {
			continue
		}
		out := make([]entities.PageElement, 0, len(texts))
		for _, t := range texts {
			out = append(out, entities.PageElement{Query: q.String(), Text: strings.TrimSpace(t)})
		}
		return out, nil
	}
	if semanticErr != nil {
		return nil, &entities.ResolutionError{Page: els.Page(), Element: name, Semantic: semanticErr}
	}
	return nil, nil
}
