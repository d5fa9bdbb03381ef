package orders

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Operator-facing status files keep the original Portuguese codes; they are
// what the account owner reads.
var statusCodes = map[AdjustmentStatus]string{
	StatusSuccess:      "SUCESSO",
	StatusNotAvailable: "INDISPONIVEL",
	StatusFailed:       "FALHA",
	StatusNotAttempted: "NAO_TENTADO",
}

var statusDescriptions = map[AdjustmentStatus]string{
	StatusSuccess:      "Reembolso solicitado com sucesso",
	StatusNotAvailable: "Reembolso não disponível para este pedido",
	StatusFailed:       "Falha ao solicitar reembolso",
	StatusNotAttempted: "Reembolso não foi tentado",
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// WriteStatusFile emits the human-readable per-order summary, named by
// status code and sanitized tracking number (order id when tracking is
// unavailable). Older files for the same order are removed first so each
// order keeps exactly one current file.
func WriteStatusFile(r *Record, dir string) error {
	logger := slog.Default().With("component", "order_store")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create orders dir: %w", err)
	}

	code, ok := statusCodes[r.AdjustmentStatus]
	if !ok {
		code = "DESCONHECIDO"
	}
	description, ok := statusDescriptions[r.AdjustmentStatus]
	if !ok {
		description = "Status desconhecido"
	}

	base := r.Tracking.TrackingNumber
	if base == Sentinel || base == "" {
		base = r.ID
	}
	safe := unsafeFilenameChars.ReplaceAllString(base, "")

	stale, err := filepath.Glob(filepath.Join(dir, "*_"+safe+".txt"))
	if err == nil {
		for _, old := range stale {
			if err := os.Remove(old); err != nil {
				logger.Error("failed to remove old order file", "file", old, "error", err)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Updated at: %s\n\n", time.Now().Format("02.01.2006 at 15:04:05"))
	fmt.Fprintf(&b, "Order ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Tracking Number: %s\n", r.Tracking.TrackingNumber)
	fmt.Fprintf(&b, "Delivery: %s\n", r.Tracking.DeliveryText)
	fmt.Fprintf(&b, "Item Count: %s\n", r.ItemCount)
	fmt.Fprintf(&b, "Order Time: %s\n\n", r.DateStr)
	b.WriteString("===== STATUS DO REEMBOLSO =====\n")
	fmt.Fprintf(&b, "Status: %s\n", description)
	fmt.Fprintf(&b, "Tentativa realizada: %s\n", simNao(r.AdjustmentAttempted))
	fmt.Fprintf(&b, "Sucesso: %s\n", simNao(r.AdjustmentSuccess))
	if r.RefundAmount != "" {
		fmt.Fprintf(&b, "Valor do reembolso: %s\n", r.RefundAmount)
	}
	fmt.Fprintf(&b, "Tentativas: %d/5\n", r.Attempts)
	lastError := r.LastError
	if lastError == "" {
		lastError = "Nenhum"
	}
	fmt.Fprintf(&b, "Último erro: %s\n", lastError)

	filename := filepath.Join(dir, code+"_"+safe+".txt")
	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write order status file: %w", err)
	}

	logger.Info("order status saved", "file", filepath.Base(filename))
	return nil
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
