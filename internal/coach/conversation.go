// ABOUTME: Conversation store for the AI coach chat.
// ABOUTME: Append-only messages with at most one advice request in flight.
package coach

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/fit/internal/models"
	"github.com/sirupsen/logrus"
)

// WelcomeID is the id of the seeded greeting.
const WelcomeID = "welcome"

// WelcomeText is the coach's opening line.
const WelcomeText = "Hey! I'm Faisal, your personal AI coach. I can build you a custom workout plan, check your form cues, or explain nutrition. What's your goal today?"

// Conversation holds the chat log and the in-flight flag.
type Conversation struct {
	mu        sync.Mutex
	messages  []models.ChatMessage
	awaiting  bool
	listeners map[int]func()
	nextID    int
	inflight  sync.WaitGroup

	advisor Advisor
	ids     models.IDGenerator
	clock   func() time.Time
	log     logrus.FieldLogger
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithIDGenerator sets the id source for messages.
func WithIDGenerator(g models.IDGenerator) Option {
	return func(c *Conversation) { c.ids = g }
}

// WithClock sets the time source for message timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Conversation) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Conversation) { c.log = l }
}

// NewConversation creates a conversation seeded with the welcome message.
func NewConversation(advisor Advisor, opts ...Option) *Conversation {
	c := &Conversation{
		advisor:   advisor,
		ids:       models.UUIDGenerator{},
		clock:     time.Now,
		log:       logrus.StandardLogger(),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.advisor == nil {
		c.advisor = NewAdvisor(nil, WithAdvisorLogger(c.log))
	}
	c.messages = []models.ChatMessage{
		models.NewChatMessage(WelcomeID, models.RoleModel, WelcomeText, c.clock()),
	}
	return c
}

// Messages returns a copy of the log in append order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Awaiting reports whether a reply is outstanding.
func (c *Conversation) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

// Subscribe registers fn to run after every change to the log or the
// in-flight flag. The returned func removes the subscription.
func (c *Conversation) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Send appends text as a user message and asks the advisor for a reply.
// Blank text, or a send while a reply is outstanding, is dropped and
// reported as false. The request is not tied to ctx's cancellation:
// once started it always completes and its reply is always appended.
func (c *Conversation) Send(ctx context.Context, text string) (*Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.awaiting {
		c.mu.Unlock()
		c.log.Debug("coach: dropping message while a reply is outstanding")
		return nil, false
	}
	history := models.Turns(c.messages)
	userMsg := models.NewChatMessage(c.ids.Next(), models.RoleUser, text, c.clock())
	c.messages = appendMessage(c.messages, userMsg)
	c.awaiting = true
	c.inflight.Add(1)
	c.mu.Unlock()
	c.notify()

	p := newPending(userMsg)
	go c.request(context.WithoutCancel(ctx), p, history)
	return p, true
}

// Ask sends text and blocks until the reply arrives or ctx ends.
// It returns false if the message was dropped.
func (c *Conversation) Ask(ctx context.Context, text string) (models.ChatMessage, bool, error) {
	p, ok := c.Send(ctx, text)
	if !ok {
		return models.ChatMessage{}, false, nil
	}
	reply, err := p.Wait(ctx)
	return reply, true, err
}

// WaitIdle blocks until no request is in flight.
func (c *Conversation) WaitIdle() {
	c.inflight.Wait()
}

func (c *Conversation) request(ctx context.Context, p *Pending, history []models.Turn) {
	defer c.inflight.Done()

	reply := c.advise(ctx, p.Request.Text, history)

	c.mu.Lock()
	msg := models.NewChatMessage(c.ids.Next(), models.RoleModel, reply, c.clock())
	c.messages = appendMessage(c.messages, msg)
	c.awaiting = false
	c.mu.Unlock()

	p.resolve(msg)
	c.notify()
}

func (c *Conversation) advise(ctx context.Context, query string, history []models.Turn) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("coach: advisor panicked")
			reply = FallbackReply
		}
	}()
	return c.advisor.Advise(ctx, query, history)
}

func (c *Conversation) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// appendMessage copies before appending so earlier snapshots stay intact.
func appendMessage(in []models.ChatMessage, m models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(in), len(in)+1)
	copy(out, in)
	return append(out, m)
}

// Pending is the outstanding reply to a sent message.
type Pending struct {
	// Request is the user message that started the request.
	Request models.ChatMessage

	done  chan struct{}
	reply models.ChatMessage
}

func newPending(req models.ChatMessage) *Pending {
	return &Pending{Request: req, done: make(chan struct{})}
}

func (p *Pending) resolve(reply models.ChatMessage) {
	p.reply = reply
	close(p.done)
}

// Done is closed once the reply has been appended.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Reply returns the reply if it has arrived.
func (p *Pending) Reply() (models.ChatMessage, bool) {
	select {
	case <-p.done:
		return p.reply, true
	default:
		return models.ChatMessage{}, false
	}
}

// Wait blocks until the reply arrives or ctx ends. Giving up on the wait
// does not cancel the request.
func (p *Pending) Wait(ctx context.Context) (models.ChatMessage, error) {
	select {
	case <-p.done:
		return p.reply, nil
	case <-ctx.Done():
		return models.ChatMessage{}, ctx.Err()
	}
}
