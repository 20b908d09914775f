package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

// handleGuildCreate seeds the engine with users already sitting in tracked
// voice channels when the gateway hands us the guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.guildID != "" && g.ID != b.guildID {
		return
	}

	var present []attendance.PresentUser
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == "" || !b.isTracked(vs.ChannelID) {
			continue
		}

		member := b.resolveMember(s, g.Guild, vs)
		if member == nil || member.User == nil || member.User.Bot {
			continue
		}

		name := b.displayName(member)
		if name == "" {
			continue
		}

		b.setLastChannel(vs.UserID, vs.ChannelID)
		present = append(present, attendance.PresentUser{
			User:    name,
			Channel: b.channelName(s, vs.ChannelID),
		})
	}

	if len(present) == 0 {
		return
	}

	out, err := b.svc.Bootstrap(context.Background(), &attendance.BootstrapInput{
		Present: present,
		Time:    b.clock.Now(),
	})
	if err != nil {
		log.Printf("Failed to bootstrap attendance for guild %s: %v", g.ID, err)
		return
	}
	log.Printf("Bootstrapped %d active voice session(s) in guild %s", out.Seeded, g.ID)
}

// handleVoiceStateUpdate classifies a voice state change as a join, leave, or
// move relative to the tracked channel set and feeds it to the engine
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs == nil || vs.VoiceState == nil {
		return
	}

	if b.guildID != "" && vs.GuildID != b.guildID {
		return
	}

	member := vs.Member
	if member == nil || member.User == nil {
		m, err := s.State.Member(vs.GuildID, vs.UserID)
		if err != nil {
			log.Printf("Failed to resolve member %s: %v", vs.UserID, err)
			return
		}
		member = m
	}

	if member.User.Bot {
		return
	}

	name := b.displayName(member)
	if name == "" {
		return
	}

	oldChannelID := b.getLastChannel(vs.UserID)
	if vs.BeforeUpdate != nil {
		oldChannelID = vs.BeforeUpdate.ChannelID
	}
	newChannelID := vs.ChannelID
	b.setLastChannel(vs.UserID, newChannelID)

	if oldChannelID == newChannelID {
		// Mute/deafen toggles arrive as voice state updates too
		return
	}

	oldTracked := oldChannelID != "" && b.isTracked(oldChannelID)
	newTracked := newChannelID != "" && b.isTracked(newChannelID)

	var input *attendance.ApplyEventInput
	switch {
	case newTracked && !oldTracked:
		input = &attendance.ApplyEventInput{
			Type:    models.EventTypeJoin,
			User:    name,
			Channel: b.channelName(s, newChannelID),
			Time:    b.clock.Now(),
		}
	case oldTracked && !newTracked:
		input = &attendance.ApplyEventInput{
			Type:    models.EventTypeLeave,
			User:    name,
			Channel: b.channelName(s, oldChannelID),
			Time:    b.clock.Now(),
		}
	case oldTracked && newTracked:
		input = &attendance.ApplyEventInput{
			Type:        models.EventTypeMove,
			User:        name,
			Channel:     b.channelName(s, newChannelID),
			FromChannel: b.channelName(s, oldChannelID),
			Time:        b.clock.Now(),
		}
	default:
		return
	}

	if _, err := b.svc.ApplyEvent(context.Background(), input); err != nil {
		log.Printf("Failed to apply %s event for %s: %v", input.Type, name, err)
	}
}

// resolveMember finds the member for a voice state, preferring the payload,
// then the guild create member list, then the session state
func (b *Bot) resolveMember(s *discordgo.Session, g *discordgo.Guild, vs *discordgo.VoiceState) *discordgo.Member {
	if vs.Member != nil && vs.Member.User != nil {
		return vs.Member
	}

	for _, m := range g.Members {
		if m.User != nil && m.User.ID == vs.UserID {
			return m
		}
	}

	if m, err := s.State.Member(g.ID, vs.UserID); err == nil {
		return m
	}

	return nil
}
