package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces the dead-letter list of each queue: a recibo job that
// exhausts its retries lands in "dlq:jobs:recibos", an email job in
// "dlq:jobs:email". Entries stay there until an operator re-queues or
// discards them by hand.
const DLQPrefix = "dlq:"

// jobDescartado is the envelope stored in a dead-letter list, carrying enough
// context to re-queue the job as-is.
type jobDescartado struct {
	Cola         string          `json:"cola"`
	Tipo         string          `json:"tipo"`
	Payload      json.RawMessage `json:"payload"`
	Motivo       string          `json:"motivo"`
	Intentos     int             `json:"intentos"`
	DescartadoEn time.Time       `json:"descartado_en"`
}

// descartar moves a job the pool could not process to its queue's dead-letter
// list. Best effort: if Redis itself fails the job is logged and lost, which
// beats re-queueing it forever.
func (p *Pool) descartar(ctx context.Context, cola string, job Job, motivo string, intentos int) {
	entrada := jobDescartado{
		Cola:         cola,
		Tipo:         job.Type,
		Payload:      job.Payload,
		Motivo:       motivo,
		Intentos:     intentos,
		DescartadoEn: time.Now().UTC(),
	}
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar el job")
		return
	}
	if err := p.rdb.LPush(ctx, DLQPrefix+cola, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo encolar")
		return
	}
	log.Warn().
		Str("cola", cola).
		Str("tipo", job.Type).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("job descartado a la dead letter queue")
}

// PendientesEnDLQ reports how many discarded jobs a queue has accumulated.
// Surfaced by the health endpoint so stuck jobs are visible without a Redis
// shell.
func PendientesEnDLQ(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}
