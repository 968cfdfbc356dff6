package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
    id            TEXT PRIMARY KEY,
    root          TEXT NOT NULL,
    started_at    TEXT NOT NULL,
    files_found   INTEGER NOT NULL DEFAULT 0,
    indexed       INTEGER NOT NULL DEFAULT 0,
    skipped       INTEGER NOT NULL DEFAULT 0,
    full_reads    INTEGER NOT NULL DEFAULT 0,
    range_start   TEXT,
    range_end     TEXT
);

CREATE TABLE IF NOT EXISTS activities (
    scan_id        TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    timestamp      TEXT NOT NULL,
    path           TEXT NOT NULL,
    distance_m     REAL NOT NULL DEFAULT 0,
    calories       INTEGER NOT NULL DEFAULT 0,
    duration_s     REAL NOT NULL DEFAULT 0,
    avg_speed_mps  REAL NOT NULL DEFAULT 0,
    ascent_m       INTEGER NOT NULL DEFAULT 0,
    descent_m      INTEGER NOT NULL DEFAULT 0,
    read_error     TEXT,
    PRIMARY KEY (scan_id, timestamp)
);

CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp);
`
