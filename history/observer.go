package history

import (
	"github.com/grovetools/kvstore/observable"
	"github.com/sirupsen/logrus"
)

// observe is the engine's spy. It runs synchronously for every change the
// runtime reports.
func (e *Engine) observe(c observable.Change) {
	if e.reverting {
		return
	}

	switch c.Type {
	case observable.ChangeActionStart:
		e.scopes = append(e.scopes, scope{name: c.Name, startDepth: len(e.scopes)})
		if len(e.scopes) == 1 {
			e.openAction(c.Name)
		}
		return
	case observable.ChangeActionEnd:
		if len(e.scopes) == 0 {
			return
		}
		top := e.scopes[len(e.scopes)-1]
		e.scopes = e.scopes[:len(e.scopes)-1]
		if top.startDepth == 0 {
			e.closeAction()
		}
		return
	}

	if !c.Structural() || e.disabled {
		return
	}

	if len(e.scopes) > 0 {
		e.recordInAction(c)
		return
	}

	key, ok := e.tracked[c.Target]
	if !ok {
		return
	}
	l := e.ledger(key)
	if l.Suppressed() {
		return
	}
	entry := newEntry(key, c)
	l.record(entry)
	e.log.WithFields(logrus.Fields{
		"key":   key,
		"entry": entry.ID,
		"type":  c.Type,
	}).Debug("Recorded change")
}

func (e *Engine) openAction(name string) {
	if e.disabled {
		return
	}
	e.actionOpen = true
	e.actionKey = name
	e.actionStep = nil
	e.ledger(name).state = RecordingAction
}

func (e *Engine) recordInAction(c observable.Change) {
	if !e.actionOpen {
		return
	}
	// A tracked key edited inside an action can no longer redo.
	if key, ok := e.tracked[c.Target]; ok {
		if kl, ok := e.ledgers[key]; ok {
			kl.future = nil
		}
	}
	l := e.ledgers[e.actionKey]
	if e.actionStep == nil {
		e.actionStep = newEntry(e.actionKey, c)
		l.record(e.actionStep)
		return
	}
	e.actionStep.prepend(c)
	l.future = nil
}

func (e *Engine) closeAction() {
	if !e.actionOpen {
		return
	}
	if l, ok := e.ledgers[e.actionKey]; ok {
		l.state = Idle
	}
	if e.actionStep != nil {
		e.log.WithFields(logrus.Fields{
			"key":     e.actionKey,
			"entry":   e.actionStep.ID,
			"changes": len(e.actionStep.Changes),
		}).Debug("Recorded action")
	}
	e.actionOpen = false
	e.actionKey = ""
	e.actionStep = nil
}
