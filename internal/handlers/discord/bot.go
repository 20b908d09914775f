// Package discord connects the attendance engine to the Discord gateway: it
// turns voice state updates into presence events, seeds the engine from the
// voice states visible at startup, and answers roster/leaderboard commands.
package discord

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// GuildID restricts tracking to one guild; empty tracks every guild the
	// bot is in
	GuildID string

	// ChannelIDs restricts tracking to specific voice channels; empty tracks
	// all of them
	ChannelIDs []string

	// SkipUnnamed drops members that have no server nickname instead of
	// falling back to their account username
	SkipUnnamed bool

	// AttendanceService is the engine presence events are applied to
	AttendanceService attendance.Service

	// Clock stamps events as they arrive from the gateway
	Clock clock.Clock
}

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	svc         attendance.Service
	clock       clock.Clock
	guildID     string
	tracked     map[string]bool
	skipUnnamed bool

	// lastChannel remembers each user's previous channel for gateways that
	// omit BeforeUpdate on voice state changes
	mu          sync.Mutex
	lastChannel map[string]string
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.AttendanceService == nil {
		return nil, errors.New("attendance service cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildVoiceStates |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	tracked := make(map[string]bool, len(cfg.ChannelIDs))
	for _, id := range cfg.ChannelIDs {
		if id != "" {
			tracked[id] = true
		}
	}

	bot := &Bot{
		session:     session,
		svc:         cfg.AttendanceService,
		clock:       clk,
		guildID:     cfg.GuildID,
		tracked:     tracked,
		skipUnnamed: cfg.SkipUnnamed,
		lastChannel: make(map[string]string),
	}

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleGuildCreate)
	session.AddHandler(bot.handleVoiceStateUpdate)
	session.AddHandler(bot.handleMessageCreate)

	return bot, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Logged in as %s#%s", r.User.Username, r.User.Discriminator)
	if len(b.tracked) > 0 {
		log.Printf("Tracking %d voice channel(s)", len(b.tracked))
	}
}

// isTracked reports whether events in the channel feed the engine
func (b *Bot) isTracked(channelID string) bool {
	if len(b.tracked) == 0 {
		return true
	}
	return b.tracked[channelID]
}

// displayName resolves the identity a member is tracked under: server
// nickname first, account username as the configurable fallback
func (b *Bot) displayName(member *discordgo.Member) string {
	if member == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if b.skipUnnamed {
		return ""
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}

// channelName resolves a channel ID to its name from the session state,
// falling back to the raw ID when the channel is not cached
func (b *Bot) channelName(s *discordgo.Session, channelID string) string {
	if channelID == "" {
		return ""
	}
	if ch, err := s.State.Channel(channelID); err == nil && ch.Name != "" {
		return ch.Name
	}
	return channelID
}

func (b *Bot) getLastChannel(userID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastChannel[userID]
}

func (b *Bot) setLastChannel(userID, channelID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if channelID == "" {
		delete(b.lastChannel, userID)
		return
	}
	b.lastChannel[userID] = channelID
}
