package site

// pageTemplate is the Go html/template for the shell page. The page holds
// no content of its own: the session fills #main-menu, #sub-menu and
// #content-area.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css">
  <script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"></script>
  <script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/contrib/auto-render.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head>
<body>
  <header class="header">
    <button class="menu-toggle" id="menu-toggle" aria-label="Toggle navigation">
      <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
      </svg>
    </button>
    <h1 class="site-title">{{.Title}}</h1>
    <nav class="main-nav">
      <ul id="main-menu"></ul>
    </nav>
  </header>
  <div class="overlay" id="overlay"></div>
  <aside class="sidebar">
    <div id="sub-menu"></div>
  </aside>
  <button class="submenu-float-btn" id="submenu-float-btn" aria-label="Toggle sections">&#9776;</button>
  <main class="content">
    <article id="content-area" class="markdown-body"></article>
  </main>
  <div class="progress" id="progress">
    <div class="progress-bar" id="progress-bar"></div>
    <span class="progress-text" id="progress-text"></span>
  </div>
  <script src="/static/app.js"></script>
</body>
</html>
`

const cssContent = `/* ============ CSS Variables ============ */
:root {
  --header-height: 56px;
  --sidebar-width: 280px;
  --bg: #ffffff;
  --bg-sidebar: #f7f8fa;
  --text: #1f2328;
  --text-muted: #656d76;
  --border: #d0d7de;
  --accent: #0969da;
  --accent-bg: #ddf4ff;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
}

/* ============ Header ============ */
.header {
  position: fixed;
  top: 0;
  left: 0;
  right: 0;
  height: var(--header-height);
  display: flex;
  align-items: center;
  gap: 16px;
  padding: 0 16px;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
  z-index: 100;
}

.site-title { font-size: 18px; margin: 0; white-space: nowrap; }

.menu-toggle {
  display: none;
  background: none;
  border: none;
  cursor: pointer;
  color: var(--text);
}

.main-nav ul {
  display: flex;
  list-style: none;
  margin: 0;
  padding: 0;
  gap: 4px;
}

.main-nav li {
  padding: 6px 12px;
  border-radius: 6px;
  cursor: pointer;
}

.main-nav li:hover { background: var(--bg-sidebar); }
.main-nav li.active { background: var(--accent-bg); color: var(--accent); }

/* ============ Sidebar ============ */
.sidebar {
  position: fixed;
  top: var(--header-height);
  bottom: 0;
  left: 0;
  width: var(--sidebar-width);
  overflow-y: auto;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  padding: 12px 0;
  z-index: 90;
}

.menu-header {
  display: flex;
  align-items: center;
  gap: 6px;
  padding: 6px 16px;
  cursor: pointer;
}

.menu-header:hover { background: var(--border); }
.menu-header.active { color: var(--accent); font-weight: 600; }
.toggle-icon { font-size: 10px; width: 12px; color: var(--text-muted); }

.sub-items {
  list-style: none;
  margin: 0;
  padding: 0 0 0 28px;
}

.sub-items li {
  padding: 4px 16px 4px 0;
  font-size: 14px;
  color: var(--text-muted);
  cursor: pointer;
}

.sub-items li:hover { color: var(--text); }
.sub-items li.active { color: var(--accent); }

.submenu-float-btn {
  display: none;
  position: fixed;
  right: 16px;
  bottom: 16px;
  width: 44px;
  height: 44px;
  border-radius: 50%;
  border: 1px solid var(--border);
  background: var(--bg);
  cursor: pointer;
  z-index: 95;
}

.overlay {
  display: none;
  position: fixed;
  inset: 0;
  background: rgba(0,0,0,0.4);
  z-index: 80;
}

.overlay.active { display: block; }

/* ============ Main Content ============ */
.content {
  margin-left: var(--sidebar-width);
  padding: calc(var(--header-height) + 24px) 40px 40px;
  max-width: calc(var(--sidebar-width) + 960px);
}

.markdown-body h2, .markdown-body h3 { scroll-margin-top: var(--header-height); }
.markdown-body pre { overflow-x: auto; padding: 12px; border-radius: 6px; background: var(--bg-sidebar); }
.markdown-body table { border-collapse: collapse; }
.markdown-body th, .markdown-body td { border: 1px solid var(--border); padding: 6px 12px; }
.loading { color: var(--text-muted); padding: 24px 0; }

/* ============ Progress ============ */
.progress {
  display: none;
  position: fixed;
  top: var(--header-height);
  left: 0;
  right: 0;
  z-index: 110;
}

.progress.visible { display: block; }
.progress-bar { height: 3px; width: 0; background: var(--accent); transition: width 0.2s; }
.progress-text { position: absolute; right: 16px; top: 6px; font-size: 12px; color: var(--text-muted); }

/* ============ Responsive ============ */
@media (max-width: 768px) {
  .menu-toggle { display: block; }
  .main-nav {
    display: none;
    position: fixed;
    top: var(--header-height);
    left: 0;
    right: 0;
    background: var(--bg);
    border-bottom: 1px solid var(--border);
    padding: 8px;
  }
  .main-nav.active { display: block; }
  .main-nav ul { flex-direction: column; }
  .sidebar { transform: translateX(-100%); transition: transform 0.3s; }
  .sidebar.active { transform: translateX(0); }
  .submenu-float-btn { display: block; }
  .content { margin-left: 0; padding: calc(var(--header-height) + 16px) 16px 16px; }
}
`

const jsContent = `(function() {
  "use strict";

  var contentArea = document.getElementById("content-area");
  var header = document.querySelector(".header");
  var progress = document.getElementById("progress");
  var progressBar = document.getElementById("progress-bar");
  var progressText = document.getElementById("progress-text");
  var ws = null;
  var hideTimer = null;

  if (window.mermaid) {
    mermaid.initialize({ startOnLoad: false });
  }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
    }
  }

  function ack(seq, err) {
    send({ type: "ack", seq: seq, error: err || "" });
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() {
      send({ type: "resize", width: window.innerWidth });
    };
    ws.onmessage = function(e) {
      apply(JSON.parse(e.data));
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }

  function apply(m) {
    switch (m.op) {
      case "html":
        var el = document.getElementById(m.target);
        if (el) el.innerHTML = m.html || "";
        break;
      case "progress":
        showProgress(m.text, m.percent || 0);
        break;
      case "hide_progress":
        hideProgress();
        break;
      case "math":
        ack(m.seq, renderMath());
        break;
      case "diagrams":
        renderDiagrams(m.diagrams || []).then(
          function() { ack(m.seq); },
          function(err) { ack(m.seq, String(err)); }
        );
        break;
      case "scroll":
        setTimeout(function() { scrollToHeading(m.id, m.margin || 0); }, m.delay || 0);
        break;
      case "layout":
        applyLayout(m.layout);
        break;
      case "error":
        console.warn("docview:", m.error);
        break;
    }
  }

  function showProgress(text, percent) {
    clearTimeout(hideTimer);
    progress.classList.add("visible");
    progressBar.style.width = percent + "%";
    progressText.textContent = text;
  }

  function hideProgress() {
    clearTimeout(hideTimer);
    hideTimer = setTimeout(function() {
      progress.classList.remove("visible");
      progressBar.style.width = "0";
    }, 300);
  }

  function renderMath() {
    if (!window.renderMathInElement) return "";
    try {
      renderMathInElement(contentArea, {
        delimiters: [
          { left: "$$", right: "$$", display: true },
          { left: "$", right: "$", display: false }
        ],
        throwOnError: false
      });
      return "";
    } catch (err) {
      return String(err);
    }
  }

  function renderDiagrams(diagrams) {
    if (!window.mermaid || diagrams.length === 0) return Promise.resolve();
    var nodes = [];
    diagrams.forEach(function(d) {
      var pre = contentArea.querySelector('pre[data-diagram="' + d.id + '"]');
      if (!pre) return;
      var div = document.createElement("div");
      div.className = "mermaid";
      div.textContent = d.source;
      pre.replaceWith(div);
      nodes.push(div);
    });
    return mermaid.run({ nodes: nodes });
  }

  function scrollToHeading(id, margin) {
    var target = id ? document.getElementById(id) : null;
    if (!target) {
      window.scrollTo({ top: 0, behavior: "smooth" });
      return;
    }
    var top = target.getBoundingClientRect().top + window.pageYOffset - header.offsetHeight - margin;
    window.scrollTo({ top: top, behavior: "smooth" });
  }

  function applyLayout(l) {
    document.getElementById("menu-toggle").classList.toggle("active", !!l.menu_toggle);
    document.querySelector(".main-nav").classList.toggle("active", !!l.main_nav);
    document.querySelector(".sidebar").classList.toggle("active", !!l.sidebar);
    document.getElementById("overlay").classList.toggle("active", !!l.overlay);
  }

  document.getElementById("main-menu").addEventListener("click", function(e) {
    var li = e.target.closest("li[data-menu]");
    if (li) send({ type: "select_section", section: li.dataset.menu });
  });

  document.getElementById("sub-menu").addEventListener("click", function(e) {
    var heading = e.target.closest("li[data-heading]");
    if (heading) {
      send({ type: "select_heading", file: heading.dataset.id, heading: heading.dataset.heading });
      return;
    }
    var file = e.target.closest(".menu-header");
    if (file) send({ type: "select_file", file: file.dataset.id });
  });

  document.getElementById("menu-toggle").addEventListener("click", function() {
    send({ type: "toggle_menu" });
  });
  document.getElementById("submenu-float-btn").addEventListener("click", function() {
    send({ type: "toggle_submenu" });
  });
  document.getElementById("overlay").addEventListener("click", function() {
    send({ type: "dismiss_overlay" });
  });

  var resizeTimer = null;
  window.addEventListener("resize", function() {
    clearTimeout(resizeTimer);
    resizeTimer = setTimeout(function() {
      send({ type: "resize", width: window.innerWidth });
    }, 150);
  });

  connect();
})();
`
