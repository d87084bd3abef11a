// Package playback keeps the single playback session: the open video, its
// attached subtitle and the subtitle text materialized for the player.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/metrics"
	"github.com/shapedtime/reelbox/internal/source"
	"github.com/shapedtime/reelbox/internal/subtitle"
)

// Decoder turns a subtitle file into text.
type Decoder interface {
	Decode(ctx context.Context, f source.File) (string, error)
}

// Options configures a Controller.
type Options struct {
	// DecodeTimeout bounds one subtitle materialization. Zero means no limit.
	DecodeTimeout time.Duration
	// Decoder defaults to an unbounded subtitle.Decoder.
	Decoder Decoder
	Metrics *metrics.Metrics
}

// Controller serializes every user action on the media set and the session.
// Lock order is controller, then manager, then registry.
type Controller struct {
	mu       sync.Mutex
	manager  *media.Manager
	registry *handle.Registry
	decoder  Decoder
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger

	// token is bumped on every selection change and never reset, so a decode
	// started for an earlier selection can never publish into a later one.
	token   uint64
	session *session

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewController creates a controller with no open session.
func NewController(manager *media.Manager, registry *handle.Registry, opts Options) *Controller {
	dec := opts.Decoder
	if dec == nil {
		dec = subtitle.NewDecoder(0)
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		manager:  manager,
		registry: registry,
		decoder:  dec,
		timeout:  opts.DecodeTimeout,
		metrics:  opts.Metrics,
		log:      slog.With("component", "playback"),
		ctx:      ctx,
		stop:     stop,
	}
}

// Manager returns the media set manager the controller drives.
func (c *Controller) Manager() *media.Manager {
	return c.manager
}

// LoadFolder closes the session and replaces the active set with files.
func (c *Controller) LoadFolder(files []source.File) *media.MediaSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	return c.manager.LoadFolder(files)
}

// Play opens the video at index, attaching its matching subtitle if one exists.
// An open session is closed first.
func (c *Controller) Play(index int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.manager.Current()
	video, ok := set.Video(index)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: index %d", media.ErrVideoNotFound, index)
	}

	c.closeLocked()
	c.session = &session{
		set:      set,
		video:    index,
		subtitle: NoSubtitle,
	}

	if sub, ok := media.MatchSubtitle(video, set.Subtitles); ok {
		c.selectLocked(&sub)
	}

	c.log.Info("Playback opened",
		"video", video.Name(),
		"subtitle", c.subtitleName(),
	)
	return c.session.snapshot(c.token), nil
}

// SelectSubtitle attaches the subtitle at index, or detaches the current one
// when index is NoSubtitle.
func (c *Controller) SelectSubtitle(index int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Snapshot{}, ErrSessionClosed
	}

	if index == NoSubtitle {
		c.selectLocked(nil)
	} else {
		sub, ok := c.session.set.Subtitle(index)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: index %d", media.ErrSubtitleNotFound, index)
		}
		c.selectLocked(&sub)
	}

	c.log.Debug("Subtitle selected", "subtitle", c.subtitleName(), "token", c.token)
	return c.session.snapshot(c.token), nil
}

// Close ends the session. Closing a closed session is a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Snapshot{Token: c.token}
	}
	return c.session.snapshot(c.token)
}

// MediaStats implements metrics.StatsProvider.
func (c *Controller) MediaStats() metrics.MediaStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.manager.Current()
	return metrics.MediaStats{
		Videos:      len(set.Videos),
		Subtitles:   len(set.Subtitles),
		SessionOpen: c.session != nil,
	}
}

// Wait blocks until every in-flight subtitle decode has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Shutdown closes the session, revokes the active set and waits for pending decodes.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.closeLocked()
	c.manager.Close()
	c.stop()
	c.mu.Unlock()

	c.wg.Wait()
	c.log.Info("Playback controller stopped")
}

func (c *Controller) closeLocked() {
	s := c.session
	if s == nil {
		return
	}

	c.token++
	c.dropResourceLocked()
	c.session = nil
	c.log.Debug("Session closed", "token", c.token)
}

// selectLocked switches the session subtitle to sub (nil for none). The
// previous materialized resource is revoked before this returns.
func (c *Controller) selectLocked(sub *media.SubtitleEntry) {
	s := c.session

	c.token++
	c.dropResourceLocked()

	if sub == nil {
		s.subtitle = NoSubtitle
		return
	}
	s.subtitle = sub.Index

	ctx, cancel := c.decodeContext()
	s.cancel = cancel
	s.pending = true

	c.wg.Add(1)
	go c.materialize(ctx, cancel, c.token, *sub)
}

// dropResourceLocked cancels any pending decode and revokes the materialized resource.
func (c *Controller) dropResourceLocked() {
	s := c.session
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = false

	if s.resource == "" {
		return
	}
	if err := c.registry.Revoke(s.resource); err != nil {
		c.log.Warn("Subtitle resource already revoked", "handle", s.resource, "error", err)
	}
	s.resource = ""
}

func (c *Controller) decodeContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.ctx, c.timeout)
	}
	return context.WithCancel(c.ctx)
}

// materialize decodes sub off the lock and publishes it as a playable resource
// only if token is still current.
func (c *Controller) materialize(ctx context.Context, cancel context.CancelFunc, token uint64, sub media.SubtitleEntry) {
	defer c.wg.Done()
	defer cancel()

	start := time.Now()
	text, err := c.decoder.Decode(ctx, sub.Source)
	elapsed := time.Since(start).Seconds()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || c.token != token {
		c.metrics.SubtitleDecoded(metrics.DecodeStale, elapsed)
		c.log.Debug("Discarding stale subtitle", "subtitle", sub.Name(), "token", token, "current", c.token)
		return
	}

	s.pending = false
	s.cancel = nil

	if err != nil {
		c.metrics.SubtitleDecoded(metrics.DecodeFailed, elapsed)
		c.log.Warn("Failed to load subtitle", "subtitle", sub.Name(), "error", err)
		return
	}

	res := handle.NewMemoryResource(sub.Name(), subtitle.ContentType, []byte(text), time.Now())
	s.resource = c.registry.Create(res)
	c.metrics.SubtitleDecoded(metrics.DecodePublished, elapsed)
	c.log.Debug("Subtitle published", "subtitle", sub.Name(), "handle", s.resource)
}

func (c *Controller) subtitleName() string {
	if sub, ok := c.session.set.Subtitle(c.session.subtitle); ok {
		return sub.Name()
	}
	return ""
}
