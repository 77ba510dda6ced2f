// Package accounting wires the engine's pure domain components behind one
// caller-facing service: normalize, post, liquidate, reconcile. The service
// performs no I/O beyond logging and holds no cross-call state.
package accounting

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/ledgerops"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/reconciliation"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/vat"
	"github.com/Morrix76/taxpilot-en-sub000/internal/infrastructure/config"
)

// Service orchestrates the accounting engine. All methods are synchronous
// pure transforms over their inputs; concurrent use is safe.
type Service struct {
	normalizer *document.Normalizer
	generator  *ledgerops.Generator
	aggregator *vat.Aggregator
	matcher    *reconciliation.Matcher
	logger     *zap.Logger
}

// New builds a service from engine configuration. A nil logger disables
// warning logs.
func New(cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		normalizer: document.NewNormalizer(decimal.NewFromFloat(cfg.Engine.TotalTolerance), logger),
		generator:  ledgerops.NewGenerator(decimal.NewFromFloat(cfg.Engine.BalanceTolerance), logger),
		aggregator: vat.NewAggregator(decimal.NewFromFloat(cfg.VAT.LargeAmountThreshold), logger),
		matcher: reconciliation.NewMatcher(reconciliation.Config{
			AmountTolerance:   decimal.NewFromFloat(cfg.Matching.AmountTolerance),
			DateToleranceDays: cfg.Matching.DateToleranceDays,
		}),
		logger: logger,
	}
}

// ProcessedDocument couples a normalized document with its journal entry.
type ProcessedDocument struct {
	Document document.CanonicalDocument
	Entry    ledgerops.JournalEntry
	// Settlement holds the optional payslip bank-settlement entry, present
	// only when explicitly requested.
	Settlement *ledgerops.JournalEntry
}

// ProcessInvoice normalizes a parsed invoice and posts it to the ledger.
func (s *Service) ProcessInvoice(in document.InvoiceInput, accounts ledgerops.AccountMap) (ProcessedDocument, error) {
	doc, err := s.normalizer.NormalizeInvoice(in)
	if err != nil {
		return ProcessedDocument{}, err
	}
	s.logWarnings(doc)
	entry, err := s.generator.Generate(doc, accounts)
	if err != nil {
		return ProcessedDocument{}, err
	}
	return ProcessedDocument{Document: doc, Entry: entry}, nil
}

// ProcessPayslip normalizes a parsed payslip and posts it. When
// withSettlement is set, the eventual bank settlement is posted as a second
// entry; it is never generated automatically.
func (s *Service) ProcessPayslip(in document.PayslipInput, accounts ledgerops.AccountMap, withSettlement bool) (ProcessedDocument, error) {
	doc, err := s.normalizer.NormalizePayslip(in)
	if err != nil {
		return ProcessedDocument{}, err
	}
	s.logWarnings(doc)
	entry, err := s.generator.Generate(doc, accounts)
	if err != nil {
		return ProcessedDocument{}, err
	}
	out := ProcessedDocument{Document: doc, Entry: entry}
	if withSettlement {
		settlement, err := s.generator.GeneratePayslipSettlement(doc, accounts)
		if err != nil {
			return ProcessedDocument{}, err
		}
		out.Settlement = &settlement
	}
	return out, nil
}

// NormalizeReceipt exposes receipt normalization for reconciliation inputs.
func (s *Service) NormalizeReceipt(in document.ReceiptInput) (document.CanonicalDocument, error) {
	doc, err := s.normalizer.NormalizeReceipt(in)
	if err != nil {
		return document.CanonicalDocument{}, err
	}
	s.logWarnings(doc)
	return doc, nil
}

// NormalizeTransfer exposes bank-transfer normalization for reconciliation
// inputs.
func (s *Service) NormalizeTransfer(in document.TransferInput) (document.CanonicalDocument, error) {
	doc, err := s.normalizer.NormalizeTransfer(in)
	if err != nil {
		return document.CanonicalDocument{}, err
	}
	s.logWarnings(doc)
	return doc, nil
}

// LiquidateVAT aggregates the documents into the period's VAT liquidation
// and logs advisory warnings.
func (s *Service) LiquidateVAT(docs []document.CanonicalDocument, period string, regime vat.Regime) (vat.Liquidation, error) {
	liquidation, err := s.aggregator.Liquidate(docs, period, regime)
	if err != nil {
		return vat.Liquidation{}, err
	}
	for _, w := range liquidation.Warnings {
		s.logger.Warn("liquidation warning", zap.String("period", liquidation.Period.String()), zap.String("warning", w))
	}
	return liquidation, nil
}

// Reconcile cross-matches the documents.
func (s *Service) Reconcile(docs []document.CanonicalDocument) (reconciliation.Result, error) {
	return s.matcher.Match(docs)
}

// VerifyCycle checks an invoice's settlement cycle against the supplied
// receipt and transfer pools.
func (s *Service) VerifyCycle(invoice document.CanonicalDocument, receipts, transfers []document.CanonicalDocument) (reconciliation.CycleReport, error) {
	return s.matcher.VerifyCycle(invoice, receipts, transfers)
}

func (s *Service) logWarnings(doc document.CanonicalDocument) {
	for _, w := range doc.Warnings {
		s.logger.Warn("normalization warning",
			zap.String("document", doc.DocumentNumber),
			zap.String("kind", doc.Kind.String()),
			zap.String("warning", w))
	}
}
