package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/rollcall/internal/export"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

const leaderboardLimit = 10

// handleMessageCreate answers the roster and leaderboard text commands
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	switch strings.TrimSpace(m.Content) {
	case "!roster":
		b.handleRosterCommand(s, m)
	case "!leaderboard":
		b.handleLeaderboardCommand(s, m)
	}
}

func (b *Bot) handleRosterCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	out, err := b.svc.GetSnapshot(context.Background(), &attendance.GetSnapshotInput{})
	if err != nil {
		log.Printf("Failed to read snapshot for roster command: %v", err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Voice Roster",
		Color: 0x2ea043,
	}

	if len(out.Snapshot.Active) == 0 {
		embed.Description = "Nobody is in voice right now."
	} else {
		now := b.clock.Now()
		for user, session := range out.Snapshot.Active {
			elapsed := int64(now.Sub(session.JoinedAt).Seconds())
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  user,
				Value: fmt.Sprintf("%s • %s", session.Channel, export.FormatDuration(elapsed)),
			})
		}
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Failed to send roster: %v", err)
	}
}

func (b *Bot) handleLeaderboardCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	out, err := b.svc.GetLeaderboard(context.Background(), &attendance.GetLeaderboardInput{})
	if err != nil {
		log.Printf("Failed to read leaderboard for command: %v", err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Presence Leaderboard",
		Color: 0x00add8,
	}

	if len(out.Entries) == 0 {
		embed.Description = "No completed sessions yet."
	} else {
		var lines []string
		for i, entry := range out.Entries {
			if i == leaderboardLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("%d. **%s** — %s", i+1, entry.User, entry.Formatted))
		}
		embed.Description = strings.Join(lines, "\n")
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Failed to send leaderboard: %v", err)
	}
}
