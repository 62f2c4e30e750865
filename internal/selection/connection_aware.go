package selection

import (
	"context"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

const (
	// maxStruggling caps how many low-accuracy cards seed a session.
	maxStruggling = 8
	// maxConnected caps how many graph neighbors join them.
	maxConnected = 12
	// maxClusterSize bounds each semantic cluster in the fallback path.
	maxClusterSize = 6
	// struggleAccuracyThreshold marks a card as struggling below this percent.
	struggleAccuracyThreshold = 80
)

// Result of connection-aware selection. Degraded means the graph path failed
// and the first TargetSessionSize cards of the input were returned instead;
// connection-awareness is an enhancement, never a hard dependency.
type Result struct {
	Cards    []models.Card
	Degraded bool
	Reason   string
}

// ConnectionAware reorders and filters a candidate set using struggle
// detection and the semantic adjacency graph. When the selection is applied,
// the session must not shuffle: the output order is the point.
type ConnectionAware struct {
	cards       repository.CardRepository
	connections repository.ConnectionRepository
}

// NewConnectionAware creates the graph-based selector.
func NewConnectionAware(cards repository.CardRepository, connections repository.ConnectionRepository) *ConnectionAware {
	return &ConnectionAware{cards: cards, connections: connections}
}

// Apply selects up to TargetSessionSize cards: struggling cards first, then
// their graph neighbors, then untouched backfill. With no struggling cards
// it falls back to clustering the whole candidate set by semantic edges.
func (ca *ConnectionAware) Apply(ctx context.Context, domainID string, cards []models.Card) Result {
	log := logger.FromContext(ctx).WithPrefix("connection_aware")

	if len(cards) == 0 {
		return Result{Cards: cards}
	}

	struggling, err := ca.findStruggling(ctx, domainID, cards)
	if err != nil {
		log.Warn("struggle detection failed, degrading to plain selection: %v", err)
		return degraded(cards, "struggle detection failed")
	}

	if len(struggling) == 0 {
		clustered, err := ca.clusterBySemantics(ctx, domainID, cards)
		if err != nil {
			log.Warn("semantic clustering failed, degrading to plain selection: %v", err)
			return degraded(cards, "semantic clustering failed")
		}
		log.Debug("no struggling cards, returning %d clustered cards", len(clustered))
		return Result{Cards: clustered}
	}

	connected, err := ca.findConnected(ctx, domainID, struggling, cards)
	if err != nil {
		log.Warn("connection expansion failed, degrading to plain selection: %v", err)
		return degraded(cards, "connection expansion failed")
	}

	selected := make([]models.Card, 0, TargetSessionSize)
	selected = append(selected, struggling...)
	selected = append(selected, connected...)

	// Backfill with untouched candidates, preserving their order.
	inSelected := questionSet(selected)
	for _, c := range cards {
		if len(selected) >= TargetSessionSize {
			break
		}
		if inSelected[c.Question] {
			continue
		}
		selected = append(selected, c)
		inSelected[c.Question] = true
	}
	if len(selected) > TargetSessionSize {
		selected = selected[:TargetSessionSize]
	}

	log.Debug("connection-aware selection: %d struggling, %d connected, %d total",
		len(struggling), len(connected), len(selected))
	return Result{Cards: selected}
}

func degraded(cards []models.Card, reason string) Result {
	n := len(cards)
	if n > TargetSessionSize {
		n = TargetSessionSize
	}
	return Result{Cards: cards[:n], Degraded: true, Reason: reason}
}

// findStruggling queries accumulated stats for the candidates and keeps
// cards with at least 3 attempts and accuracy below the threshold, ranked
// worst-first by the repository ordering.
func (ca *ConnectionAware) findStruggling(ctx context.Context, domainID string, cards []models.Card) ([]models.Card, error) {
	questions := make([]string, len(cards))
	byQuestion := make(map[string]models.Card, len(cards))
	for i, c := range cards {
		questions[i] = c.Question
		byQuestion[c.Question] = c
	}

	rows, err := ca.cards.StatsByQuestions(ctx, domainID, questions)
	if err != nil {
		return nil, err
	}

	var out []models.Card
	for _, row := range rows {
		if len(out) >= maxStruggling {
			break
		}
		if row.ReviewedCount <= 0 {
			continue
		}
		accuracy := float64(row.CorrectCount) / float64(row.ReviewedCount) * 100
		if accuracy >= struggleAccuracyThreshold {
			continue
		}
		if c, ok := byQuestion[row.Question]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// findConnected expands the struggling set through semantic/compound/radical
// edges and returns the candidate cards on the other end, excluding the
// struggling set itself.
func (ca *ConnectionAware) findConnected(ctx context.Context, domainID string, struggling, cards []models.Card) ([]models.Card, error) {
	chars := make([]string, len(struggling))
	for i, c := range struggling {
		chars[i] = c.Question
	}

	edges, err := ca.connections.ConnectedTo(ctx, domainID, chars, maxConnected)
	if err != nil {
		return nil, err
	}

	inStruggling := questionSet(struggling)
	connectedChars := make(map[string]bool)
	for _, e := range edges {
		if inStruggling[e.SourceChar] && !inStruggling[e.TargetChar] {
			connectedChars[e.TargetChar] = true
		}
		if inStruggling[e.TargetChar] && !inStruggling[e.SourceChar] {
			connectedChars[e.SourceChar] = true
		}
	}

	var out []models.Card
	for _, c := range cards {
		if len(out) >= maxConnected {
			break
		}
		if connectedChars[c.Question] && !inStruggling[c.Question] {
			out = append(out, c)
		}
	}
	return out, nil
}

// clusterBySemantics groups the candidates into semantic clusters by
// breadth-first traversal, producing a locally coherent order instead of
// pure randomness. Unconnected cards keep their relative position.
func (ca *ConnectionAware) clusterBySemantics(ctx context.Context, domainID string, cards []models.Card) ([]models.Card, error) {
	if len(cards) <= 5 {
		return cards, nil
	}

	questions := make([]string, len(cards))
	for i, c := range cards {
		questions[i] = c.Question
	}

	edges, err := ca.connections.SemanticAmong(ctx, domainID, questions)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return cards, nil
	}

	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.SourceChar] = append(adjacency[e.SourceChar], e.TargetChar)
		adjacency[e.TargetChar] = append(adjacency[e.TargetChar], e.SourceChar)
	}

	byQuestion := make(map[string]models.Card, len(cards))
	for _, c := range cards {
		byQuestion[c.Question] = c
	}

	visited := make(map[string]bool, len(cards))
	var ordered []models.Card
	for _, seed := range cards {
		if visited[seed.Question] {
			continue
		}
		ordered = append(ordered, ca.growCluster(seed, byQuestion, adjacency, visited)...)
	}

	if len(ordered) > TargetSessionSize {
		ordered = ordered[:TargetSessionSize]
	}
	return ordered, nil
}

// growCluster walks the adjacency graph breadth-first from seed, collecting
// at most maxClusterSize candidate cards.
func (ca *ConnectionAware) growCluster(seed models.Card, byQuestion map[string]models.Card, adjacency map[string][]string, visited map[string]bool) []models.Card {
	cluster := []models.Card{seed}
	visited[seed.Question] = true

	queue := []string{seed.Question}
	for len(queue) > 0 && len(cluster) < maxClusterSize {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range adjacency[current] {
			if visited[neighbor] {
				continue
			}
			card, ok := byQuestion[neighbor]
			if !ok {
				continue
			}
			cluster = append(cluster, card)
			visited[neighbor] = true
			queue = append(queue, neighbor)
			if len(cluster) >= maxClusterSize {
				break
			}
		}
	}
	return cluster
}

func questionSet(cards []models.Card) map[string]bool {
	set := make(map[string]bool, len(cards))
	for _, c := range cards {
		set[c.Question] = true
	}
	return set
}
