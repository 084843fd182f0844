package devbackend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/study-dashboard/internal/ai"
	"github.com/nhle/study-dashboard/internal/model"
)

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// --- objectives ---

func (s *Server) listObjectives(c *gin.Context) {
	objectives, err := s.store.GetObjectives(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, objectives)
}

func (s *Server) createObjective(c *gin.Context) {
	var in model.ObjectiveInput
	if !bind(c, &in) {
		return
	}
	o, err := s.store.CreateObjective(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (s *Server) updateObjective(c *gin.Context) {
	var u model.ObjectiveUpdate
	if !bind(c, &u) {
		return
	}
	u.ID = c.Param("id")
	o, err := s.store.UpdateObjective(c.Request.Context(), userID(c), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) deleteObjective(c *gin.Context) {
	if err := s.store.DeleteObjective(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- tasks ---

func (s *Server) listTasks(c *gin.Context) {
	var filter TaskFilter
	if goal, ok := c.GetQuery("goalId"); ok {
		filter.GoalID = &goal
	}
	if status, ok := c.GetQuery("status"); ok {
		st := model.TaskStatus(status)
		filter.Status = &st
	}
	tasks, err := s.store.GetTasks(c.Request.Context(), userID(c), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var in model.TaskInput
	if !bind(c, &in) {
		return
	}
	t, err := s.store.CreateTask(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c *gin.Context) {
	var u model.TaskUpdate
	if !bind(c, &u) {
		return
	}
	u.ID = c.Param("id")
	t, err := s.store.UpdateTask(c.Request.Context(), userID(c), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- notes ---

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.store.GetNotes(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) createNote(c *gin.Context) {
	var in model.NoteInput
	if !bind(c, &in) {
		return
	}
	n, err := s.store.CreateNote(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (s *Server) updateNote(c *gin.Context) {
	var u model.NoteUpdate
	if !bind(c, &u) {
		return
	}
	u.ID = c.Param("id")
	n, err := s.store.UpdateNote(c.Request.Context(), userID(c), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *Server) deleteNote(c *gin.Context) {
	if err := s.store.DeleteNote(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) summarizeNote(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	note, err := s.store.GetNoteByID(ctx, uid, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	summary, err := s.responder.Summarize(ctx, *note)
	if err != nil {
		s.log.Warnw("summarizing note", "note", note.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "summary unavailable"})
		return
	}

	result, err := s.store.SetNoteSummary(ctx, uid, note.ID, summary)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- chat ---

func (s *Server) listChatSessions(c *gin.Context) {
	sessions, err := s.store.GetChatSessions(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) createChatSession(c *gin.Context) {
	var in model.ChatSessionInput
	if c.Request.ContentLength != 0 && !bind(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(c, err)
		return
	}
	session, err := s.store.CreateChatSession(c.Request.Context(), userID(c), in.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) renameChatSession(c *gin.Context) {
	var in model.ChatSessionInput
	if !bind(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(c, err)
		return
	}
	session, err := s.store.RenameChatSession(c.Request.Context(), userID(c), c.Param("id"), in.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) deleteChatSession(c *gin.Context) {
	if err := s.store.DeleteChatSession(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sendChatMessage stores the user's message followed by the assistant's
// reply. When the assistant fails only the user's message is stored.
func (s *Server) sendChatMessage(c *gin.Context) {
	var in model.SendMessageInput
	if !bind(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	session, err := s.store.GetChatSessionByID(ctx, uid, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	userMsg := model.ChatMessage{Role: model.ChatRoleUser, Content: in.Content, Type: model.ChatMessageText}
	msgs := []model.ChatMessage{userMsg}

	notes, err := s.store.GetNotes(ctx, uid)
	if err != nil {
		s.writeError(c, err)
		return
	}
	conv := ai.NewConversationContext(session.Messages)
	conv.AddMessage(userMsg)
	reply, err := s.responder.Reply(ctx, conv, notes)
	if err != nil {
		s.log.Warnw("assistant reply failed", "session", session.ID, "error", err)
	} else {
		msgs = append(msgs, reply)
	}

	result, err := s.store.AppendChatMessages(ctx, uid, session.ID, msgs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- achievements ---

func (s *Server) listAchievements(c *gin.Context) {
	achievements, err := computeAchievements(c.Request.Context(), s.store, userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}
