// Package browser provides Playwright smoke tests against a fake Web
// Modeler served from httptest. Tests skip when Playwright or Chromium is
// not installed.
package browser

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// requirePlaywright skips the test when the Playwright driver or Chromium
// is unavailable on this machine.
func requirePlaywright(t *testing.T) {
	t.Helper()

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	_ = browser.Close()
	_ = pw.Stop()
}

// fakeModeler is an in-memory stand-in for the target application: a login
// form, a modeler workspace, a run view, and a monitoring view whose
// results table addresses rows by process name.
type fakeModeler struct {
	mu        sync.Mutex
	processes map[string]bool
	instances map[string]string

	// connectorBroken leaves the connector panel hidden after the
	// add-connector click, so the bounded wait must fire.
	connectorBroken bool
	// instanceStatus is reported for every started instance.
	instanceStatus string
}

func newFakeModeler() *fakeModeler {
	return &fakeModeler{
		processes:      make(map[string]bool),
		instances:      make(map[string]string),
		instanceStatus: "Completed",
	}
}

func (f *fakeModeler) statusOf(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instances[name]
}

func (f *fakeModeler) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, loginPageHTML)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		page := strings.ReplaceAll(modelerPageHTML, "CONNECTOR_BROKEN", strconv.FormatBool(f.connectorBroken))
		writeHTML(w, page)
	})
	mux.HandleFunc("GET /run", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, runPageHTML)
	})
	mux.HandleFunc("GET /operate", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, operatePageHTML)
	})

	mux.HandleFunc("POST /api/processes", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		f.mu.Lock()
		f.processes[name] = true
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/processes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		names := make([]string, 0, len(f.processes))
		for name := range f.processes {
			names = append(names, name)
		}
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(names)
	})

	mux.HandleFunc("POST /api/instances", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.processes[name] {
			http.Error(w, "unknown process", http.StatusNotFound)
			return
		}
		f.instances[name] = f.instanceStatus
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/instances", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		f.mu.Lock()
		status, ok := f.instances[name]
		f.mu.Unlock()
		if !ok {
			http.Error(w, "no such instance", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"name": name, "status": status})
	})

	return mux
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

const loginPageHTML = `<!DOCTYPE html>
<html><head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
<form onsubmit="return false">
  <input name="username" type="text" autofocus>
  <input name="password" type="password">
</form>
<script>
const username = document.querySelector("input[name='username']");
const password = document.querySelector("input[name='password']");
username.addEventListener('keydown', (e) => {
  if (e.key === 'Enter') { e.preventDefault(); password.focus(); }
});
password.addEventListener('keydown', (e) => {
  if (e.key === 'Enter') { e.preventDefault(); window.location.href = '/'; }
});
</script>
</body></html>`

const modelerPageHTML = `<!DOCTYPE html>
<html><head><title>Web Modeler</title></head>
<body>
<button data-test="create-process">Create process</button>
<div id="create-dialog" hidden>
  <input data-test="process-name-input" type="text">
  <button data-test="confirm-create">Create</button>
</div>
<div id="editor" hidden>
  <button data-test="add-connector">Add Connector</button>
  <div id="connector-panel" hidden>
    <input data-test="connector-url-input" type="text">
    <button data-test="save-connector">Save connector</button>
  </div>
  <button data-test="save-process">Save process</button>
</div>
<script>
const q = (s) => document.querySelector(s);
q("[data-test='create-process']").addEventListener('click', () => {
  q('#create-dialog').hidden = false;
});
q("[data-test='confirm-create']").addEventListener('click', () => {
  q('#create-dialog').hidden = true;
  q('#editor').hidden = false;
});
q("[data-test='add-connector']").addEventListener('click', () => {
  q('#connector-panel').hidden = CONNECTOR_BROKEN;
});
q("[data-test='save-process']").addEventListener('click', () => {
  const name = q("[data-test='process-name-input']").value;
  fetch('/api/processes?name=' + encodeURIComponent(name), { method: 'POST', keepalive: true });
});
</script>
</body></html>`

const runPageHTML = `<!DOCTYPE html>
<html><head><title>Run</title></head>
<body>
<button data-test="run-instance">Run instance</button>
<button data-test="monitor-sidebar-toggle">Monitor</button>
<aside id="sidebar" hidden>
  <a data-test="monitor-link" href="/operate">Monitoring</a>
</aside>
<script>
document.querySelector("[data-test='monitor-sidebar-toggle']").addEventListener('click', () => {
  document.getElementById('sidebar').hidden = false;
});
</script>
</body></html>`

const operatePageHTML = `<!DOCTYPE html>
<html><head><title>Monitoring</title></head>
<body>
<button data-test="monitor-sidebar-toggle">Monitor</button>
<aside id="sidebar" hidden>
  <a data-test="monitor-link" href="/operate">Monitoring</a>
</aside>
<select data-test="process-select"></select>
<button data-test="start-instance">Start instance</button>
<input data-test="instance-search" type="text">
<table><tbody id="results"></tbody></table>
<script>
const q = (s) => document.querySelector(s);
q("[data-test='monitor-sidebar-toggle']").addEventListener('click', () => {
  q('#sidebar').hidden = false;
});

const select = q("[data-test='process-select']");
const loadProcesses = async () => {
  const resp = await fetch('/api/processes');
  const names = await resp.json();
  if (!names.length) { setTimeout(loadProcesses, 150); return; }
  select.innerHTML = '';
  for (const name of names) {
    const opt = document.createElement('option');
    opt.textContent = name;
    opt.value = name;
    select.appendChild(opt);
  }
};
loadProcesses();

q("[data-test='start-instance']").addEventListener('click', () => {
  fetch('/api/instances?name=' + encodeURIComponent(select.value), { method: 'POST', keepalive: true });
});

const search = q("[data-test='instance-search']");
const renderResult = async (name, attempts) => {
  const resp = await fetch('/api/instances?name=' + encodeURIComponent(name));
  if (!resp.ok) {
    if (attempts > 0) { setTimeout(() => renderResult(name, attempts - 1), 150); }
    return;
  }
  const inst = await resp.json();
  const row = document.createElement('tr');
  row.setAttribute('data-test', 'process-row-' + inst.name);
  const cell = document.createElement('td');
  cell.setAttribute('data-test', 'completion-status');
  cell.textContent = inst.status;
  row.appendChild(cell);
  const results = document.getElementById('results');
  results.innerHTML = '';
  results.appendChild(row);
};
search.addEventListener('keydown', (e) => {
  if (e.key === 'Enter') { e.preventDefault(); renderResult(search.value, 30); }
});
</script>
</body></html>`
