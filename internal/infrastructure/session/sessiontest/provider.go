// Package sessiontest fornece providers de principal para testes
package sessiontest

import (
	"context"
	"sync"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

// SwitchableProvider permite trocar o principal entre decisões.
// Conta os snapshots para verificar que cada decisão lê a sessão uma única vez.
type SwitchableProvider struct {
	mu        sync.Mutex
	principal entities.Principal
	snapshots int
	onSnap    func()
}

// NewSwitchableProvider cria o provider com o principal inicial
func NewSwitchableProvider(principal entities.Principal) *SwitchableProvider {
	return &SwitchableProvider{principal: principal}
}

// Set troca o principal corrente
func (p *SwitchableProvider) Set(principal entities.Principal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.principal = principal
}

// OnSnapshot registra um hook executado após cada snapshot (ex.: trocar a sessão no meio da decisão)
func (p *SwitchableProvider) OnSnapshot(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSnap = fn
}

// Snapshots retorna quantas vezes o principal foi lido
func (p *SwitchableProvider) Snapshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots
}

func (p *SwitchableProvider) Snapshot(context.Context) entities.Principal {
	p.mu.Lock()
	principal := p.principal
	p.snapshots++
	hook := p.onSnap
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
	return principal
}
