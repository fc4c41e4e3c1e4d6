package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/soundprediction/orgchart/pkg/types"
)

// ErrIdentityKeyConflict is returned when a merge would create a second
// node with an existing identity key. Neo4j rejects the same write through
// the employee_identity_key constraint.
var ErrIdentityKeyConflict = errors.New("identity key already exists")

// MemoryDriver is a process-local GraphDriver with the same merge
// semantics as the Neo4j statements in graph_queries.go. Data does not
// survive the process.
type MemoryDriver struct {
	mu     sync.RWMutex
	nextID int
	nodes  []*memNode
	byID   map[string]*memNode
	edges  map[types.EdgeKey]struct{}
	out    map[string][]string
}

type memNode struct {
	id    string
	props map[string]string
}

// NewMemoryDriver creates an empty memory store.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		byID:  make(map[string]*memNode),
		edges: make(map[types.EdgeKey]struct{}),
		out:   make(map[string][]string),
	}
}

func (m *MemoryDriver) create(props map[string]string) *memNode {
	m.nextID++
	node := &memNode{id: "mem:" + strconv.Itoa(m.nextID), props: props}
	m.nodes = append(m.nodes, node)
	m.byID[node.id] = node
	return node
}

// matching returns nodes whose prop equals value, in creation order.
func (m *MemoryDriver) matching(prop, value string) []*memNode {
	var found []*memNode
	for _, node := range m.nodes {
		if v, ok := node.props[prop]; ok && v == value {
			found = append(found, node)
		}
	}
	return found
}

func (m *MemoryDriver) mergeEdge(from, to string) {
	key := types.EdgeKey{From: from, To: to, Type: types.ManagesType}
	if _, ok := m.edges[key]; ok {
		return
	}
	m.edges[key] = struct{}{}
	m.out[from] = append(m.out[from], to)
}

func setOrRemove(props map[string]string, key, value string) {
	if types.StringPtr(value) == nil {
		delete(props, key)
		return
	}
	props[key] = value
}

// MergeEmployee upserts the subject and manager edge of rec atomically.
func (m *MemoryDriver) MergeEmployee(ctx context.Context, rec types.EmployeeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := rec.Identity.Key()
	if key == "" {
		return types.ErrEmptyIdentity
	}
	if rec.Manager != nil {
		if _, err := managerQuery(*rec.Manager); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var subject *memNode
	var previous map[string]string
	if found := m.matching("identityKey", key); len(found) > 0 {
		subject = found[0]
		previous = make(map[string]string, len(subject.props))
		for k, v := range subject.props {
			previous[k] = v
		}
	} else {
		subject = m.create(map[string]string{"identityKey": key})
	}

	id := rec.Identity
	setOrRemove(subject.props, "firstName", id.FirstName)
	setOrRemove(subject.props, "lastName", id.LastName)
	setOrRemove(subject.props, "fullName", id.FullName)
	setOrRemove(subject.props, "phone", id.Phone)
	setOrRemove(subject.props, "address", id.Address)
	if types.StringPtr(id.Email) != nil {
		subject.props["email"] = id.Email
	}

	if rec.Manager == nil {
		return nil
	}

	var managers []*memNode
	switch rec.Manager.MatchOn {
	case types.MatchEmail:
		managers = m.matching("identityKey", rec.Manager.Key)
		if len(managers) == 0 {
			managers = append(managers, m.create(map[string]string{
				"identityKey": rec.Manager.Key,
				"email":       rec.Manager.Key,
			}))
		}
	case types.MatchFullName:
		managers = m.matching("fullName", rec.Manager.Key)
		if len(managers) == 0 {
			if len(m.matching("identityKey", rec.Manager.Key)) > 0 {
				m.rollback(subject, previous)
				return fmt.Errorf("%w: manager stub %q", ErrIdentityKeyConflict, rec.Manager.Key)
			}
			managers = append(managers, m.create(map[string]string{
				"identityKey": rec.Manager.Key,
				"fullName":    rec.Manager.Key,
			}))
		}
	}

	for _, mgr := range managers {
		m.mergeEdge(mgr.id, subject.id)
	}
	return nil
}

// rollback undoes the subject write of a failed merge. A nil previous
// means the subject was created by the merge.
func (m *MemoryDriver) rollback(subject *memNode, previous map[string]string) {
	if previous != nil {
		subject.props = previous
		return
	}
	delete(m.byID, subject.id)
	m.nodes = m.nodes[:len(m.nodes)-1]
}

func (n *memNode) employee() types.Employee {
	prop := func(key string) *string {
		return types.StringPtr(n.props[key])
	}
	return types.Employee{
		NodeID:      n.id,
		IdentityKey: n.props["identityKey"],
		FullName:    prop("fullName"),
		FirstName:   prop("firstName"),
		LastName:    prop("lastName"),
		Email:       prop("email"),
		Phone:       prop("phone"),
		Address:     prop("address"),
	}
}

// FindEmployeesByFullName returns every employee with fullName == name.
func (m *MemoryDriver) FindEmployeesByFullName(ctx context.Context, name string) ([]types.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var employees []types.Employee
	for _, node := range m.matching("fullName", name) {
		employees = append(employees, node.employee())
	}
	return employees, nil
}

// OutgoingManages returns the MANAGES edges leaving nodeIDs with their reports.
func (m *MemoryDriver) OutgoingManages(ctx context.Context, nodeIDs []string) ([]types.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var reports []types.Report
	seen := make(map[string]struct{}, len(nodeIDs))
	for _, from := range nodeIDs {
		if _, dup := seen[from]; dup {
			continue
		}
		seen[from] = struct{}{}

		for _, to := range m.out[from] {
			reports = append(reports, types.Report{
				Edge:   types.ManagesEdge{FromID: from, ToID: to, Type: types.ManagesType},
				Report: m.byID[to].employee(),
			})
		}
	}
	return reports, nil
}

// ListFullNames returns up to limit distinct full names in creation order.
func (m *MemoryDriver) ListFullNames(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	seen := make(map[string]struct{})
	for _, node := range m.nodes {
		if len(names) >= limit {
			break
		}
		name, ok := node.props["fullName"]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// CreateIndices is a no-op for the memory store.
func (m *MemoryDriver) CreateIndices(ctx context.Context) error {
	return ctx.Err()
}

// Health reports the memory store as always connected.
func (m *MemoryDriver) Health(ctx context.Context) (*types.DatabaseInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &types.DatabaseInfo{Name: "memory", Version: "1", Edition: "embedded"}, nil
}

// GetStats counts employees and relationships.
func (m *MemoryDriver) GetStats(ctx context.Context) (*types.GraphStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return &types.GraphStats{
		Employees:     int64(len(m.nodes)),
		Relationships: int64(len(m.edges)),
	}, nil
}

// DuplicateNames lists full names shared by several employees, sorted by name.
func (m *MemoryDriver) DuplicateNames(ctx context.Context) ([]types.DuplicateName, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make(map[string][]*memNode)
	for _, node := range m.nodes {
		if name, ok := node.props["fullName"]; ok {
			groups[name] = append(groups[name], node)
		}
	}

	var dups []types.DuplicateName
	for name, nodes := range groups {
		if len(nodes) < 2 {
			continue
		}
		var emails []string
		for _, node := range nodes {
			if email, ok := node.props["email"]; ok {
				emails = append(emails, email)
			}
		}
		dups = append(dups, types.DuplicateName{FullName: name, Emails: emails, Count: len(nodes)})
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].FullName < dups[j].FullName })
	return dups, nil
}

// Provider returns the provider type.
func (m *MemoryDriver) Provider() GraphProvider {
	return GraphProviderMemory
}

// Close is a no-op for the memory store.
func (m *MemoryDriver) Close(ctx context.Context) error {
	return nil
}

// String summarizes the store contents.
func (m *MemoryDriver) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("MemoryDriver{nodes: %d, edges: %d}", len(m.nodes), len(m.edges))
}
