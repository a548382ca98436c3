package snipe

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// DefaultCapacity is how many deleted messages are kept per guild.
const DefaultCapacity = 25

// Message is one deleted message retained for sniping.
type Message struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	AuthorID  snowflake.ID
	AuthorTag string
	Content   string
	DeletedAt time.Time
}

// Cache holds the most recently deleted messages per guild in a bounded
// buffer, newest last. Guilds that disable sniping are simply never fed.
type Cache struct {
	mu       sync.Mutex
	capacity int
	byGuild  map[snowflake.ID][]Message
}

// NewCache creates a cache keeping up to capacity messages per guild.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Cache{
		capacity: capacity,
		byGuild:  make(map[snowflake.ID][]Message),
	}
}

// Add records a deleted message, evicting the oldest once the guild's
// buffer is full.
func (c *Cache) Add(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := c.byGuild[msg.GuildID]
	if len(buf) >= c.capacity {
		buf = buf[1:]
	}

	c.byGuild[msg.GuildID] = append(buf, msg)
}

// Latest returns the most recently deleted message matching the filters.
// A zero channel or author ID matches anything.
func (c *Cache) Latest(guildID, channelID, authorID snowflake.ID) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := c.byGuild[guildID]
	for i := len(buf) - 1; i >= 0; i-- {
		msg := buf[i]
		if channelID != 0 && msg.ChannelID != channelID {
			continue
		}

		if authorID != 0 && msg.AuthorID != authorID {
			continue
		}

		return msg, true
	}

	return Message{}, false
}

// Clear drops everything cached for a guild, used when sniping is turned
// off so previously deleted messages stop being retrievable.
func (c *Cache) Clear(guildID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byGuild, guildID)
}
