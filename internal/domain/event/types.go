package event

// Event type tags, grouped by aggregate.
const (
	WorkspaceCreated              = "workspace.created"
	WorkspaceRenamed              = "workspace.renamed"
	WorkspaceMemberInvited        = "workspace.member_invited"
	WorkspaceMemberReactivated    = "workspace.member_reactivated"
	WorkspaceMemberRemoved        = "workspace.member_removed"
	WorkspaceRoleAssigned         = "workspace.role_assigned"
	WorkspaceRoleRevoked          = "workspace.role_revoked"
	WorkspaceOwnershipTransferred = "workspace.ownership_transferred"

	ProjectCreated            = "project.created"
	ProjectRenamed            = "project.renamed"
	ProjectDescriptionUpdated = "project.description_updated"
	ProjectAccessGranted      = "project.access_granted"
	ProjectAccessRevoked      = "project.access_revoked"
	ProjectRoleChanged        = "project.role_changed"

	TaskCreated        = "task.created"
	TaskRenamed        = "task.renamed"
	TaskStatusChanged  = "task.status_changed"
	TaskReordered      = "task.reordered"
	TaskMoved          = "task.moved"
	TaskAssigned       = "task.assigned"
	TaskCommentAdded   = "task.comment_added"
	TaskCommentEdited  = "task.comment_edited"
	TaskCommentDeleted = "task.comment_deleted"

	AvailabilityCreated        = "availability.created"
	AvailabilityUpdated        = "availability.updated"
	AvailabilityDatesUpdated   = "availability.dates_updated"
	AvailabilitySegmentAdded   = "availability.segment_added"
	AvailabilitySegmentUpdated = "availability.segment_updated"
	AvailabilitySegmentRemoved = "availability.segment_removed"
	AvailabilityArchived       = "availability.archived"
	AvailabilityReactivated    = "availability.reactivated"

	ConversationCreated        = "conversation.created"
	ConversationMessageAdded   = "conversation.message_added"
	ConversationMessageEdited  = "conversation.message_edited"
	ConversationMessageDeleted = "conversation.message_deleted"

	UserRegistered      = "user.registered"
	UserRenamed         = "user.renamed"
	UserPasswordChanged = "user.password_changed"

	AgentCreated       = "ai.agent_created"
	AgentPaused        = "ai.agent_paused"
	AgentActivated     = "ai.agent_activated"
	AgentRevoked       = "ai.agent_revoked"
	AgentPolicyUpdated = "ai.agent_policy_updated"

	CommandProposed = "ai.command_proposed"
	CommandApproved = "ai.command_approved"
	CommandRejected = "ai.command_rejected"
	CommandExecuted = "ai.command_executed"
	CommandFailed   = "ai.command_failed"

	AIConversationOpened   = "ai.conversation_opened"
	AIConversationAppended = "ai.conversation_turn_added"
	AIConversationClosed   = "ai.conversation_closed"
	AIConversationReopened = "ai.conversation_reopened"
)
