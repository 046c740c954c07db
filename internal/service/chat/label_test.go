package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eduportal-backend/internal/domain"
)

func TestDeriveSenderLabelOwnMessage(t *testing.T) {
	conversation := &domain.Conversation{Type: domain.ConversationTypeGroup}
	message := &domain.Message{SenderID: "user-me", SenderName: "Someone Else"}

	assert.Equal(t, "You", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelGroupMessageName(t *testing.T) {
	conversation := &domain.Conversation{Type: domain.ConversationTypeGroup}
	message := &domain.Message{SenderID: "user-1", SenderName: "Alex J."}

	assert.Equal(t, "Alex J.", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelGroupMetadataWinsOverStaticTable(t *testing.T) {
	// user-1 exists in the static table, but conversation metadata takes
	// precedence
	conversation := &domain.Conversation{
		Type: domain.ConversationTypeGroup,
		Metadata: map[string]interface{}{
			"groupMembers": []interface{}{
				map[string]interface{}{"id": "user-1", "name": "Alex"},
			},
		},
	}
	message := &domain.Message{SenderID: "user-1"}

	assert.Equal(t, "Alex", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelGroupStaticTableFallback(t *testing.T) {
	conversation := &domain.Conversation{Type: domain.ConversationTypeGroup}
	message := &domain.Message{SenderID: "user-1"}

	assert.Equal(t, "Alex Johnson", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelGroupUnknownSender(t *testing.T) {
	conversation := &domain.Conversation{Type: domain.ConversationTypeGroup}
	message := &domain.Message{SenderID: "unknown-user"}

	assert.Equal(t, "Group Member", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelDirectGroupMembersMetadata(t *testing.T) {
	conversation := &domain.Conversation{
		Type: domain.ConversationTypeDirect,
		Metadata: map[string]interface{}{
			"groupMembers": []domain.GroupMember{
				{ID: "user-other", Name: "Maria"},
			},
			"studentName": "Should Not Win",
		},
	}
	message := &domain.Message{SenderID: "user-other"}

	assert.Equal(t, "Maria", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelDirectStudentName(t *testing.T) {
	conversation := &domain.Conversation{
		Type: domain.ConversationTypeDirect,
		Metadata: map[string]interface{}{
			"studentName": "Jordan Smith",
		},
	}
	message := &domain.Message{SenderID: "user-other"}

	assert.Equal(t, "Jordan Smith", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelDirectFallback(t *testing.T) {
	conversation := &domain.Conversation{Type: domain.ConversationTypeDirect}
	message := &domain.Message{SenderID: "user-other"}

	assert.Equal(t, "Student", DeriveSenderLabel(message, conversation, "user-me"))
}

func TestDeriveSenderLabelAbsoluteFallback(t *testing.T) {
	message := &domain.Message{SenderID: "user-42"}

	assert.Equal(t, "User user-42", DeriveSenderLabel(message, nil, "user-me"))
}
