package sqlite

const schema = `
CREATE TABLE locality (
	locality_pid       TEXT PRIMARY KEY,
	locality_name      TEXT NOT NULL,
	state_abbreviation TEXT NOT NULL
);

CREATE TABLE locality_neighbour (
	locality_pid           TEXT NOT NULL REFERENCES locality(locality_pid),
	neighbour_locality_pid TEXT NOT NULL REFERENCES locality(locality_pid),
	PRIMARY KEY (locality_pid, neighbour_locality_pid)
);

CREATE TABLE street_type_aut (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE street_suffix_aut (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE street_locality (
	street_locality_pid TEXT PRIMARY KEY,
	locality_pid        TEXT NOT NULL REFERENCES locality(locality_pid),
	street_name         TEXT NOT NULL,
	street_type_code    TEXT NOT NULL DEFAULT '',
	street_suffix_code  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE australian_full_addresses (
	address_detail_pid  TEXT PRIMARY KEY,
	street_locality_pid TEXT NOT NULL REFERENCES street_locality(street_locality_pid),
	street_name         TEXT NOT NULL,
	address             TEXT NOT NULL,
	postcode            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE street_lookup (
	street_locality_pid TEXT NOT NULL,
	locality_pid        TEXT NOT NULL,
	street_name         TEXT NOT NULL,
	street_type_code    TEXT NOT NULL,
	street_suffix_code  TEXT NOT NULL,
	state_abbreviation  TEXT NOT NULL,
	locality_name       TEXT NOT NULL,
	postcode            TEXT NOT NULL,
	address_suffix      TEXT NOT NULL
);

CREATE INDEX idx_street_locality_name ON street_locality(street_name);
CREATE INDEX idx_addresses_street ON australian_full_addresses(street_locality_pid);
`

// streetSearchQuery ranks street_lookup rows, keeps the best distinct
// descriptors and expands each into same-named streets in its own or a
// neighbouring locality.
//
//	?1 search text  ?2 containment weight  ?3 descriptor limit  ?4 max edit ratio
const streetSearchQuery = `
WITH scored AS (
	SELECT
		street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode,
		levenshtein(?1, address_suffix) - jaro_winkler_similarity(?1, address_suffix)
			+ CASE WHEN street_name <> '' AND instr(' ' || ?1 || ' ', ' ' || street_name || ' ') > 0
				THEN ?2 ELSE 0 END AS distance
	FROM street_lookup
	WHERE ?4 <= 0
		OR (street_name <> '' AND instr(' ' || ?1 || ' ', ' ' || street_name || ' ') > 0)
		OR levenshtein(?1, address_suffix) <= ?4 * max(length(?1), length(address_suffix))
),
descriptors AS (
	SELECT
		street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode, MIN(distance) AS distance
	FROM scored
	GROUP BY street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode
	ORDER BY distance, street_locality_pid, postcode, locality_pid
	LIMIT ?3
)
SELECT DISTINCT
	sl.street_locality_pid, sl.locality_pid, d.street_name, sl.street_type_code, sl.street_suffix_code,
	d.state_abbreviation, d.locality_name, d.postcode, d.distance
FROM descriptors d
JOIN street_locality sl
	ON sl.street_name = d.street_name
	AND (d.street_type_code = '' OR sl.street_type_code = d.street_type_code)
	AND (d.street_suffix_code = '' OR sl.street_suffix_code = d.street_suffix_code)
WHERE sl.locality_pid = d.locality_pid
	OR sl.locality_pid IN (
		SELECT neighbour_locality_pid FROM locality_neighbour WHERE locality_pid = d.locality_pid
	)
ORDER BY d.distance, sl.street_locality_pid, d.postcode, sl.locality_pid
`
