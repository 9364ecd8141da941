package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/entities"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/security"
)

// SessionConflictError is returned when a connection already has a running
// import session
type SessionConflictError struct {
	SessionID string
}

func (e *SessionConflictError) Error() string {
	return fmt.Sprintf("an import is already running on this connection (session %s)", e.SessionID)
}

// SessionNotRunningError is returned when cancelling a session that has
// already reached a terminal state
type SessionNotRunningError struct {
	Status models.SessionStatus
}

func (e *SessionNotRunningError) Error() string {
	return fmt.Sprintf("session is not running (status %s)", e.Status)
}

// ErrSessionNotFound is returned when a session does not exist or is not
// owned by the requesting user
var ErrSessionNotFound = fmt.Errorf("import session not found")

// importService implements ImportService
type importService struct {
	batchSize  int
	batchDelay time.Duration

	connections repositories.ConnectionRepository
	sessions    repositories.ImportSessionRepository
	rowLogs     repositories.ImportRowLogRepository
	cipher      *security.CredentialCipher
	factory     *erp.Factory
	metrics     *Metrics
	logger      *logger.Logger
}

// NewImportService creates a new import service
func NewImportService(
	cfg *config.Config,
	connections repositories.ConnectionRepository,
	sessions repositories.ImportSessionRepository,
	rowLogs repositories.ImportRowLogRepository,
	cipher *security.CredentialCipher,
	factory *erp.Factory,
	metrics *Metrics,
	log *logger.Logger,
) ImportService {
	batchSize := cfg.Import.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	batchDelay := time.Duration(cfg.Import.BatchDelayMs) * time.Millisecond
	if batchDelay < 0 {
		batchDelay = 0
	}
	return &importService{
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		connections: connections,
		sessions:    sessions,
		rowLogs:     rowLogs,
		cipher:      cipher,
		factory:     factory,
		metrics:     metrics,
		logger:      log,
	}
}

// Start validates preconditions, creates the session record and launches
// the processor goroutine. Events are buffered so a slow or disconnected
// consumer never stalls the import.
func (s *importService) Start(ctx context.Context, userID string, req *ImportRequest) (<-chan Event, error) {
	adapter, err := entities.GetAdapter(req.EntityType)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.GetByID(ctx, req.ConnectionID, userID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}

	var creds models.Credentials
	if err := s.cipher.DecryptJSON(conn.Credentials, &creds); err != nil {
		return nil, ErrCredentialDecrypt
	}

	// one running session per connection
	existing, err := s.sessions.GetRunningByConnection(ctx, conn.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &SessionConflictError{SessionID: existing.ID}
	}

	session := &models.ImportSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		ConnectionID: conn.ID,
		EntityType:   req.EntityType,
		Mode:         req.Mode,
		FileName:     req.FileName,
		TotalRows:    len(req.Rows),
		Status:       models.SessionRunning,
		StartedAt:    time.Now(),
		MappingUsed:  req.Mappings,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.sessionStarted()

	batches := (len(req.Rows) + s.batchSize - 1) / s.batchSize
	events := make(chan Event, batches+2)

	client := s.factory.ClientFor(conn, creds)

	go s.run(session, adapter, client, req, events)

	return events, nil
}

// Cancel transitions a running session to cancelled and stamps its
// completion. The processor polls the store between batches and stops when
// it observes the transition; an in-progress batch always finishes its rows.
func (s *importService) Cancel(ctx context.Context, userID, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.Status != models.SessionRunning {
		return &SessionNotRunningError{Status: session.Status}
	}

	now := time.Now()
	duration := now.Sub(session.StartedAt).Milliseconds()
	session.Status = models.SessionCancelled
	session.CompletedAt = &now
	session.DurationMs = &duration
	if err := s.sessions.Update(ctx, session); err != nil {
		return err
	}
	s.metrics.sessionFinished(string(models.SessionCancelled))
	return nil
}

// run is the batch processor. It always emits exactly one terminal event
// before closing the channel. Cancellation is observed as a store
// transition; the cancel endpoint owns session state on that path.
func (s *importService) run(
	session *models.ImportSession,
	adapter entities.Adapter,
	client *erp.Client,
	req *ImportRequest,
	events chan<- Event,
) {
	ctx := context.Background()
	log := s.logger.WithSession(session.ID).WithField("entity_type", string(req.EntityType))

	total := len(req.Rows)
	processed, succeeded, failed := 0, 0, 0
	createdCount, updatedCount := 0, 0
	cancelled := false

	defer close(events)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.WithField("panic", r).Error("Import processing failed")

		now := time.Now()
		duration := now.Sub(session.StartedAt).Milliseconds()
		session.Status = models.SessionFailed
		session.SuccessCount = succeeded
		session.FailCount = failed
		session.CreatedCount = createdCount
		session.UpdatedCount = updatedCount
		session.CompletedAt = &now
		session.DurationMs = &duration
		if err := s.sessions.Update(ctx, session); err != nil {
			log.WithError(err).Error("Session finalization failed")
		}
		s.metrics.sessionFinished(string(models.SessionFailed))

		events <- errorEvent(ImportError{
			SessionID: session.ID,
			Message:   fmt.Sprintf("Import processing failed: %v", r),
			Resumable: false,
		})
	}()

	// Existing keys drive the created/updated split. When the fetch fails
	// the import still proceeds and every success is reported as created.
	var existingKeys map[string]struct{}
	if keys, err := adapter.FetchExistingKeys(ctx, client); err != nil {
		log.WithError(err).Warn("Existing keys fetch failed, operations will be reported as created")
	} else {
		existingKeys = keys
	}

	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}

		batchResults := make([]RowResult, 0, end-start)
		batchLogs := make([]*models.ImportRowLog, 0, end-start)

		for i := start; i < end; i++ {
			rowNumber := i + 1
			record := adapter.MapRecord(req.Rows[i], req.Mappings)
			entities.ApplyDefaults(record, req.DefaultValues, adapter.Fields())

			key := record.KeyValue(adapter.KeyField())
			displayKey := key
			if displayKey == "" {
				displayKey = fmt.Sprintf("Row %d", rowNumber)
			}

			result := RowResult{RowNumber: rowNumber, Key: displayKey}
			rowLog := &models.ImportRowLog{
				SessionID:  session.ID,
				RowNumber:  rowNumber,
				KeyValue:   displayKey,
				MappedData: models.RecordJSON(record),
			}

			if err := adapter.PushRecord(ctx, client, record); err != nil {
				failed++
				message := err.Error()
				if erpErr := erp.AsError(err); erpErr != nil {
					message = erpErr.Message
					rowLog.ErrorCode = string(erpErr.Kind)
				}
				result.Error = erp.HumanizeError(message)
				rowLog.Status = models.RowLogFailed
				rowLog.ErrorMessage = result.Error
				s.metrics.rowProcessed(string(req.EntityType), "failed")
			} else {
				succeeded++
				operation := models.OperationCreated
				if existingKeys != nil {
					if _, ok := existingKeys[key]; ok {
						operation = models.OperationUpdated
					}
				}
				if operation == models.OperationCreated {
					createdCount++
				} else {
					updatedCount++
				}
				result.Success = true
				result.Operation = string(operation)
				rowLog.Status = models.RowLogSuccess
				rowLog.Operation = operation
				s.metrics.rowProcessed(string(req.EntityType), "success")
			}

			processed++
			batchResults = append(batchResults, result)
			batchLogs = append(batchLogs, rowLog)
		}

		// Audit writes never interrupt the import
		if err := s.rowLogs.CreateBatch(ctx, batchLogs); err != nil {
			log.WithError(err).Warn("Row log persistence failed")
		}

		events <- progressEvent(BatchProgress{
			Processed:    processed,
			Total:        total,
			Succeeded:    succeeded,
			Failed:       failed,
			CreatedCount: createdCount,
			UpdatedCount: updatedCount,
			BatchResults: batchResults,
		})

		if end < total {
			current, err := s.sessions.GetByID(ctx, session.ID, session.UserID)
			if err != nil {
				log.WithError(err).Warn("Session status poll failed")
			} else if current != nil && current.Status == models.SessionCancelled {
				cancelled = true
			}
			if cancelled {
				break
			}
			time.Sleep(s.batchDelay)
		}
	}

	now := time.Now()
	duration := now.Sub(session.StartedAt).Milliseconds()

	outcome := ImportOutcome{
		SessionID:    session.ID,
		Processed:    processed,
		Total:        total,
		Succeeded:    succeeded,
		Failed:       failed,
		CreatedCount: createdCount,
		UpdatedCount: updatedCount,
		DurationMs:   duration,
	}

	// The cancel endpoint already stamped the session; no final write here
	if cancelled {
		log.WithFields(map[string]interface{}{"processed": processed, "total": total}).Info("Import cancelled")
		events <- cancelledEvent(outcome)
		return
	}

	session.Status = models.SessionCompleted
	session.SuccessCount = succeeded
	session.FailCount = failed
	session.CreatedCount = createdCount
	session.UpdatedCount = updatedCount
	session.CompletedAt = &now
	session.DurationMs = &duration
	if err := s.sessions.Update(ctx, session); err != nil {
		log.WithError(err).Error("Session finalization failed")
	}
	s.metrics.sessionFinished(string(models.SessionCompleted))

	log.WithFields(map[string]interface{}{
		"succeeded": succeeded,
		"failed":    failed,
		"duration":  duration,
	}).Info("Import completed")
	events <- completeEvent(outcome)
}
