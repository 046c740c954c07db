package chat

import (
	"eduportal-backend/internal/domain"
)

// fallbackMemberNames maps well-known seed account IDs to display names.
// Used only when neither the message nor the conversation metadata carries
// a name for the sender.
var fallbackMemberNames = map[string]string{
	"user-1": "Alex Johnson",
	"user-2": "Maria Garcia",
	"user-3": "David Chen",
	"user-4": "Sarah Williams",
	"staff-1": "Prof. Emily Brown",
	"staff-2": "Dr. James Wilson",
}

// DeriveSenderLabel resolves a human-readable label for a message's sender.
// Pure function of (message, conversation, currentUserID); the precedence
// order below is load-bearing for display parity across clients:
//
//	1. the acting user's own messages are labeled "You"
//	2. group: the name embedded on the message
//	3. group: the sender's entry in metadata.groupMembers
//	4. group: the static seed-account table
//	5. group: "Group Member"
//	6. direct: the other participant's entry in metadata.groupMembers
//	7. direct: metadata.studentName
//	8. direct: "Student"
//	9. otherwise "User <senderId>"
func DeriveSenderLabel(message *domain.Message, conversation *domain.Conversation, currentUserID string) string {
	if message.SenderID == currentUserID {
		return "You"
	}

	if conversation != nil && conversation.Type == domain.ConversationTypeGroup {
		if message.SenderName != "" {
			return message.SenderName
		}
		if name := groupMemberName(conversation.Metadata, message.SenderID); name != "" {
			return name
		}
		if name, ok := fallbackMemberNames[message.SenderID]; ok {
			return name
		}
		return "Group Member"
	}

	if conversation != nil && conversation.Type == domain.ConversationTypeDirect {
		if name := groupMemberName(conversation.Metadata, message.SenderID); name != "" {
			return name
		}
		if name := metadataString(conversation.Metadata, "studentName"); name != "" {
			return name
		}
		return "Student"
	}

	return "User " + message.SenderID
}

// groupMemberName looks up a user's display name in metadata.groupMembers.
// The store decodes the member list as []interface{} of maps; typed
// GroupMember slices appear when the conversation was built in-process.
func groupMemberName(metadata map[string]interface{}, userID string) string {
	if metadata == nil {
		return ""
	}

	switch members := metadata["groupMembers"].(type) {
	case []domain.GroupMember:
		for _, m := range members {
			if m.ID == userID {
				return m.Name
			}
		}
	case []interface{}:
		for _, raw := range members {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			id, _ := m["id"].(string)
			name, _ := m["name"].(string)
			if id == userID {
				return name
			}
		}
	}

	return ""
}

// metadataString reads a string value from conversation metadata
func metadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	value, _ := metadata[key].(string)
	return value
}
