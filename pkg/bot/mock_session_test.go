package bot

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MockSession implements Session for testing. It keeps one guild's roles and
// member assignments in memory and records every interaction reply.
type MockSession struct {
	mu sync.Mutex

	Roles       []*discordgo.Role
	MemberRoles map[string][]string
	nextRoleID  int

	Responses []*discordgo.InteractionResponse
	Edits     []string
	Files     map[string][]byte

	Calls      map[string]int
	FailMember error
}

func NewMockSession() *MockSession {
	return &MockSession{
		MemberRoles: make(map[string][]string),
		Files:       make(map[string][]byte),
		Calls:       make(map[string]int),
	}
}

func (m *MockSession) AddGuildRole(name string) *discordgo.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRoleID++
	role := &discordgo.Role{ID: fmt.Sprintf("r%d", m.nextRoleID), Name: name, Position: 1}
	m.Roles = append(m.Roles, role)
	return role
}

func (m *MockSession) RoleNames(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, id := range m.MemberRoles[userID] {
		for _, r := range m.Roles {
			if r.ID == id {
				names = append(names, r.Name)
			}
		}
	}
	return names
}

func (m *MockSession) DirectoryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for verb, n := range m.Calls {
		if verb != "respond" && verb != "edit" {
			total += n
		}
	}
	return total
}

func (m *MockSession) LastEdit() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Edits) == 0 {
		return ""
	}
	return m.Edits[len(m.Edits)-1]
}

func (m *MockSession) FirstResponse() *discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Responses) == 0 {
		return nil
	}
	return m.Responses[0]
}

func (m *MockSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["roles"]++
	out := make([]*discordgo.Role, len(m.Roles))
	for i, r := range m.Roles {
		copied := *r
		out[i] = &copied
	}
	return out, nil
}

func (m *MockSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["member"]++
	if m.FailMember != nil {
		return nil, m.FailMember
	}
	return &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID},
		Roles:   append([]string(nil), m.MemberRoles[userID]...),
	}, nil
}

func (m *MockSession) GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["create"]++
	m.nextRoleID++
	role := &discordgo.Role{ID: fmt.Sprintf("r%d", m.nextRoleID), Name: data.Name, Position: 1}
	if data.Color != nil {
		role.Color = *data.Color
	}
	m.Roles = append(m.Roles, role)
	copied := *role
	return &copied, nil
}

func (m *MockSession) GuildRoleReorder(guildID string, roles []*discordgo.Role, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["reorder"]++
	for _, moved := range roles {
		for _, r := range m.Roles {
			if r.ID == moved.ID {
				r.Position = moved.Position
			}
		}
	}
	return m.Roles, nil
}

func (m *MockSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["add"]++
	for _, id := range m.MemberRoles[userID] {
		if id == roleID {
			return nil
		}
	}
	m.MemberRoles[userID] = append(m.MemberRoles[userID], roleID)
	return nil
}

func (m *MockSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["remove"]++
	held := m.MemberRoles[userID]
	for i, id := range held {
		if id == roleID {
			m.MemberRoles[userID] = append(held[:i:i], held[i+1:]...)
			return nil
		}
	}
	return errors.New("unknown member role")
}

func (m *MockSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["respond"]++
	m.Responses = append(m.Responses, resp)
	return nil
}

func (m *MockSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["edit"]++
	content := ""
	if newresp.Content != nil {
		content = *newresp.Content
	}
	m.Edits = append(m.Edits, content)
	for _, f := range newresp.Files {
		data, err := io.ReadAll(f.Reader)
		if err != nil {
			return nil, err
		}
		m.Files[f.Name] = data
	}
	return &discordgo.Message{Content: content}, nil
}

func (m *MockSession) Grant(userID string, role *discordgo.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MemberRoles[userID] = append(m.MemberRoles[userID], role.ID)
}

// MockRegistrar records slash command registrations.
type MockRegistrar struct {
	Created []string
	Deleted []string
	FailOn  string
}

func (m *MockRegistrar) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if cmd.Name == m.FailOn {
		return nil, errors.New("registration failed")
	}
	m.Created = append(m.Created, guildID+"/"+cmd.Name)
	return &discordgo.ApplicationCommand{ID: guildID + "-" + cmd.Name, Name: cmd.Name, GuildID: guildID}, nil
}

func (m *MockRegistrar) ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error {
	m.Deleted = append(m.Deleted, cmdID)
	return nil
}
