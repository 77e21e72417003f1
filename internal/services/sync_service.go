package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"verdantshop/internal/domain"
	"verdantshop/internal/llm"
	applog "verdantshop/internal/log"
	"verdantshop/internal/repos"
	"verdantshop/internal/vector"
)

// SyncService pushes product documents into the vector index so the chatbot
// can retrieve them. Each product's document carries a content hash; an
// unchanged product is skipped unless the caller forces a full resync.
type SyncService struct {
	Products   *repos.ProductRepo
	Categories *repos.CategoryRepo
	State      *repos.SyncStateRepo
	Index      vector.Index
	LLM        llm.Client
}

func NewSyncService(products *repos.ProductRepo, categories *repos.CategoryRepo, state *repos.SyncStateRepo, idx vector.Index, lm llm.Client) *SyncService {
	return &SyncService{Products: products, Categories: categories, State: state, Index: idx, LLM: lm}
}

type SyncReport struct {
	Total   int      `json:"total"`
	Synced  int      `json:"synced"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// featureWords are description keywords surfaced as searchable features.
var featureWords = []string{
	"solar", "organic", "recycled", "bamboo", "biodegradable", "compostable",
	"reusable", "rechargeable", "energy-efficient", "plastic-free", "vegan",
	"fair-trade", "handmade", "sustainable",
}

func extractFeatures(description string) []string {
	lower := strings.ToLower(description)
	var out []string
	for _, w := range featureWords {
		if strings.Contains(lower, w) {
			out = append(out, w)
		}
	}
	return out
}

// document builds the text that gets embedded. Field order is fixed so the
// hash is stable across runs.
func (s *SyncService) document(p domain.Product, categoryName string) string {
	availability := "out of stock"
	if p.Available && p.StockQty > 0 {
		availability = "in stock"
	}
	parts := []string{
		"Product: " + p.Name,
		"Category: " + categoryName,
		"Description: " + p.Description,
		fmt.Sprintf("Price: $%.2f", p.Price),
		"Availability: " + availability,
	}
	if feats := extractFeatures(p.Description); len(feats) > 0 {
		parts = append(parts, "Features: "+strings.Join(feats, ", "))
	}
	return strings.Join(parts, "\n")
}

func contentHash(doc string) string {
	h := fnv.New64a()
	h.Write([]byte(doc))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Run syncs every product, batchSize at a time. force bypasses the hash
// check. One product failing embeds or upserts does not stop the batch.
func (s *SyncService) Run(ctx context.Context, force bool, batchSize int) (SyncReport, error) {
	var rep SyncReport
	if s.Index == nil || !s.Index.Ready() {
		return rep, vector.ErrNotConfigured
	}
	if s.LLM == nil || !s.LLM.Ready() {
		return rep, llm.ErrNotConfigured
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	products, err := s.Products.All()
	if err != nil {
		return rep, err
	}
	rep.Total = len(products)

	categories := map[string]string{}
	cats, err := s.Categories.List()
	if err != nil {
		return rep, err
	}
	for _, c := range cats {
		categories[c.ID] = c.Name
	}

	for start := 0; start < len(products); start += batchSize {
		end := min(start+batchSize, len(products))
		for _, p := range products[start:end] {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			doc := s.document(p, categories[p.CategoryID])
			hash := contentHash(doc)
			if !force {
				prev, err := s.State.Hash(p.ID)
				if err != nil {
					rep.Failed++
					rep.Errors = append(rep.Errors, p.ID+": "+err.Error())
					continue
				}
				if prev == hash {
					rep.Skipped++
					continue
				}
			}
			if err := s.syncOne(ctx, p, categories[p.CategoryID], doc, hash); err != nil {
				rep.Failed++
				rep.Errors = append(rep.Errors, p.ID+": "+err.Error())
				continue
			}
			rep.Synced++
		}
		applog.Job("sync.batch", map[string]any{"from": start, "to": end, "synced": rep.Synced, "skipped": rep.Skipped, "failed": rep.Failed})
	}
	return rep, nil
}

func (s *SyncService) syncOne(ctx context.Context, p domain.Product, categoryName, doc, hash string) error {
	values, err := s.LLM.Embed(ctx, doc)
	if err != nil {
		return err
	}
	meta := map[string]any{
		"name":         p.Name,
		"category":     categoryName,
		"price":        p.Price,
		"availability": p.Available && p.StockQty > 0,
		"stock_qty":    p.StockQty,
		"text":         doc,
	}
	if err := s.Index.Upsert(ctx, p.ID, values, meta); err != nil {
		return err
	}
	return s.State.Record(p.ID, hash)
}

// Remove drops a product from the index, e.g. after deletion from catalog.
func (s *SyncService) Remove(ctx context.Context, productID string) error {
	if s.Index == nil || !s.Index.Ready() {
		return vector.ErrNotConfigured
	}
	return s.Index.Delete(ctx, []string{productID})
}
