package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allyhealth/previsit/internal/events"
	"github.com/allyhealth/previsit/internal/extract"
	"github.com/allyhealth/previsit/internal/orchestrator"
	"github.com/allyhealth/previsit/internal/report"
	"github.com/allyhealth/previsit/internal/store"
	"github.com/allyhealth/previsit/internal/transcript"
)

type sessionResponse struct {
	Session    store.Session          `json:"session"`
	Transcript []transcript.Utterance `json:"transcript"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply   orchestrator.AgentReply `json:"reply"`
	Profile extract.PatientProfile  `json:"profile"`
}

// createSession opens a session and seeds the interviewer greeting.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.store.CreateSession(ctx)
	if err != nil {
		s.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	greeting := transcript.New(transcript.SpeakerInterviewer, orchestrator.Greeting)
	if err := s.store.AppendUtterance(ctx, sess.ID, greeting); err != nil {
		s.logger.Error("seed greeting", "session_id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Session:    sess,
		Transcript: []transcript.Utterance{greeting},
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	utts, err := s.store.ListUtterances(ctx, id)
	if err != nil {
		s.logger.Error("list utterances", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transcript")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Transcript: utts})
}

// postMessage appends a patient utterance, runs one interview turn, stores
// the agent reply and the refreshed profile, and reports both back.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if sess.ClosedAt != nil {
		writeError(w, http.StatusConflict, "session is closed")
		return
	}

	patient := transcript.New(transcript.SpeakerPatient, req.Text)
	if err := s.store.AppendUtterance(ctx, id, patient); err != nil {
		s.logger.Error("append utterance", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store message")
		return
	}

	utts, err := s.store.ListUtterances(ctx, id)
	if err != nil {
		s.logger.Error("list utterances", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transcript")
		return
	}

	result, err := s.orch.Turn(ctx, utts)
	if err != nil {
		s.logger.Error("interview turn", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not run interview turn")
		return
	}

	replyUtt := transcript.New(transcript.SpeakerInterviewer, result.Reply.Text)
	if err := s.store.AppendUtterance(ctx, id, replyUtt); err != nil {
		s.logger.Error("append reply", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store reply")
		return
	}
	if err := s.store.SaveProfile(ctx, id, result.Profile); err != nil {
		s.logger.Error("save profile", "session_id", id, "error", err)
	}

	// Completion closes the session whether or not events are configured.
	if result.Clinical.InterviewComplete {
		if err := s.store.CloseSession(ctx, id); err != nil {
			s.logger.Warn("close session", "session_id", id, "error", err)
		}
	}

	s.publishTurnEvents(id, result, utts)

	writeJSON(w, http.StatusOK, messageResponse{Reply: result.Reply, Profile: result.Profile})
}

func (s *Server) publishTurnEvents(id uuid.UUID, result *orchestrator.TurnResult, utts []transcript.Utterance) {
	if s.events == nil {
		return
	}

	patientTurns := len(transcript.PatientUtterances(utts))
	err := s.events.Publish(events.SubjectProfileUpdated, events.ProfileUpdated{
		SessionID:    id,
		PatientTurns: patientTurns,
		HasRedFlags:  len(result.Profile.RedFlags) > 0,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish profile.updated", "session_id", id, "error", err)
	}

	if result.Clinical.InterviewComplete {
		err := s.events.Publish(events.SubjectInterviewCompleted, events.InterviewCompleted{
			SessionID:   id,
			CompletedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("publish interview.completed", "session_id", id, "error", err)
		}
	}
}

// getProfile recomputes the profile from the stored transcript rather than
// serving the snapshot, so the response always reflects the full transcript.
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if _, err := s.store.GetSession(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	utts, err := s.store.ListUtterances(ctx, id)
	if err != nil {
		s.logger.Error("list utterances", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transcript")
		return
	}

	writeJSON(w, http.StatusOK, extract.Extract(utts))
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if _, err := s.store.GetSession(ctx, id); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	utts, err := s.store.ListUtterances(ctx, id)
	if err != nil {
		s.logger.Error("list utterances", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transcript")
		return
	}

	pdf, err := report.Render(extract.Extract(utts))
	if err != nil {
		s.logger.Error("render report", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="previsit-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
