package dashboard

import "html/template"

var pageTmpl = template.Must(template.New("dashboard").Parse(pageTemplate))

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --primary: #1a365d;
            --accent: #2c5282;
            --warning: #c05621;
            --light: #f7fafc;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--light);
            color: #2d3748;
            line-height: 1.6;
            padding: 1rem;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header {
            background: var(--primary);
            color: white;
            padding: 1.5rem;
            border-radius: 8px;
            margin-bottom: 1.5rem;
        }
        header h1 { font-size: 1.5rem; margin-bottom: 0.5rem; }
        .subtitle { opacity: 0.9; font-size: 0.9rem; }
        .stats { display: flex; gap: 1rem; margin-top: 1rem; flex-wrap: wrap; }
        .stat {
            background: rgba(255,255,255,0.15);
            padding: 0.5rem 1rem;
            border-radius: 4px;
            font-size: 0.85rem;
        }
        .stat strong { font-size: 1.2rem; }
        .section {
            background: white;
            border-radius: 8px;
            padding: 1rem;
            margin-bottom: 1rem;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .section h2 {
            color: var(--primary);
            font-size: 1.1rem;
            margin-bottom: 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 2px solid var(--border);
        }
        .job-list { list-style: none; }
        .job { padding: 1rem; border-bottom: 1px solid var(--border); }
        .job:last-child { border-bottom: none; }
        .job.applied { background: #f0fff4; }
        .job.applied .job-title::after { content: " ✓ applied"; color: #276749; font-size: 0.8rem; }
        .job.irrelevant { opacity: 0.35; }
        .job.irrelevant .job-title { text-decoration: line-through; }
        .job-title {
            font-weight: 600;
            color: var(--accent);
            text-decoration: none;
            display: block;
            margin-bottom: 0.5rem;
        }
        .job-title:hover { text-decoration: underline; }
        .job-meta {
            display: flex;
            gap: 1rem;
            flex-wrap: wrap;
            font-size: 0.85rem;
            color: #718096;
            align-items: center;
        }
        .badge {
            display: inline-block;
            padding: 0.2rem 0.5rem;
            border-radius: 4px;
            font-size: 0.75rem;
            font-weight: 500;
        }
        .badge-high { background: #fed7d7; color: #c53030; }
        .badge-closing { background: #feebc8; color: var(--warning); }
        .badge-keyword { background: #e2e8f0; color: #4a5568; }
        .keywords { margin-top: 0.5rem; display: flex; gap: 0.25rem; flex-wrap: wrap; }
        .marks { margin-top: 0.5rem; display: flex; gap: 0.5rem; }
        .marks button {
            border: 1px solid var(--border);
            background: white;
            border-radius: 4px;
            padding: 0.15rem 0.5rem;
            font-size: 0.75rem;
            color: #4a5568;
            cursor: pointer;
        }
        .marks button:hover { border-color: var(--accent); color: var(--accent); }
        .empty { color: #a0aec0; text-align: center; padding: 2rem; }
        footer { text-align: center; color: #a0aec0; font-size: 0.8rem; margin-top: 2rem; }
        footer a { color: var(--accent); }
        @media (max-width: 600px) {
            body { padding: 0.5rem; }
            header { padding: 1rem; }
            .job-meta { flex-direction: column; gap: 0.5rem; align-items: flex-start; }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{.Title}}</h1>
            <p class="subtitle">PhD &amp; Research positions at Karolinska Institutet</p>
            <p class="subtitle">Focus: iPSC/Organoids, Single-cell, Neuroscience</p>
            <div class="stats">
                <div class="stat"><strong>{{.Matching}}</strong> matching positions</div>
                <div class="stat"><strong>{{.ClosingSoon}}</strong> closing soon</div>
                <div class="stat"><strong>{{.HighPriority}}</strong> high priority</div>
            </div>
        </header>
{{if not .Sections}}
        <div class="section">
            <p class="empty">No matching positions found. Check back later!</p>
        </div>
{{end}}
{{range .Sections}}
        <div class="section">
            <h2>{{.Name}} ({{len .Jobs}})</h2>
            <ul class="job-list">
{{range .Jobs}}
                <li class="job" data-job-id="{{.ID}}">
                    <a href="{{.URL}}" class="job-title" target="_blank">{{.Title}}</a>
                    <div class="job-meta">
                        <span>Deadline: {{if .Deadline}}{{.Deadline}}{{else}}Not specified{{end}}</span>
                        {{if .HighPriority}}<span class="badge badge-high">High Priority</span>{{end}}
                        {{if .ClosingSoon}}<span class="badge badge-closing">Closing Soon</span>{{end}}
                    </div>
                    <div class="keywords">
                        {{range .Keywords}}<span class="badge badge-keyword">{{.}}</span>{{end}}
                    </div>
                    <div class="marks">
                        <button onclick="toggleMark({{.ID}}, 'applied')">Applied</button>
                        <button onclick="toggleMark({{.ID}}, 'irrelevant')">Irrelevant</button>
                    </div>
                </li>
{{end}}
            </ul>
        </div>
{{end}}
        <footer>
            <p>Last updated: {{.LastUpdated}}</p>
{{if .Topic}}
            <p>Subscribe to notifications: <a href="https://ntfy.sh/{{.Topic}}">ntfy.sh/{{.Topic}}</a></p>
{{end}}
        </footer>
    </div>
    <script>
        const JOBS = {{.JobsJSON}};
        const STORAGE_KEY = "kijobs-marks";

        function loadMarks() {
            try {
                return JSON.parse(localStorage.getItem(STORAGE_KEY)) || {};
            } catch (e) {
                return {};
            }
        }

        function saveMarks(marks) {
            localStorage.setItem(STORAGE_KEY, JSON.stringify(marks));
        }

        function refreshMarks() {
            const marks = loadMarks();
            document.querySelectorAll(".job").forEach(el => {
                const state = marks[el.dataset.jobId];
                el.classList.toggle("applied", state === "applied");
                el.classList.toggle("irrelevant", state === "irrelevant");
            });
        }

        function toggleMark(id, state) {
            const marks = loadMarks();
            if (marks[id] === state) {
                delete marks[id];
            } else {
                marks[id] = state;
            }
            saveMarks(marks);
            refreshMarks();
        }

        // Marks for postings no longer listed would pile up forever; drop them.
        function pruneMarks() {
            const marks = loadMarks();
            const current = new Set(JOBS.map(j => j.id));
            let changed = false;
            for (const id of Object.keys(marks)) {
                if (!current.has(id)) {
                    delete marks[id];
                    changed = true;
                }
            }
            if (changed) saveMarks(marks);
        }

        pruneMarks();
        refreshMarks();
    </script>
</body>
</html>
`
