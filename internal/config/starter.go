package config

// StarterPolicy is the starter policy.yaml content `frenum init`
// scaffolds: a regex_block rule against destructive SQL, a pii_detect
// sweep over every tool call, and a tool_allowlist closing the
// default-deny gap. A fresh project lints clean and its starter tests
// pass immediately.
const StarterPolicy = `policy_version: "1.0.0"

rules:
  # Block dangerous SQL patterns
  - name: block_sql_injection
    type: regex_block
    applies_to: ["execute_sql"]
    params:
      fields: ["query"]
      patterns:
        - "(?i)(DROP|DELETE|TRUNCATE)\\s+TABLE"

  # Scan all tool calls for PII leakage
  - name: detect_pii
    type: pii_detect
    applies_to: ["*"]
    params:
      detectors: [email, phone_intl, credit_card, ssn]
      action: block

  # Only allow known tools
  - name: allowed_tools_only
    type: tool_allowlist
    applies_to: ["*"]
    params:
      allowed_tools: ["execute_sql", "search", "get_data"]
`

// StarterTests is the starter tests.yaml content `frenum init`
// scaffolds: one case per starter rule, plus a clean-query allow case.
const StarterTests = `tests:
  - description: SQL injection blocked
    tool_call:
      name: execute_sql
      args:
        query: "DROP TABLE users"
    expected: block
    expected_rule: block_sql_injection

  - description: Clean query allowed
    tool_call:
      name: execute_sql
      args:
        query: "SELECT * FROM users WHERE id = 1"
    expected: allow

  - description: PII in args blocked
    tool_call:
      name: search
      args:
        query: "Contact alice@example.com"
    expected: block
    expected_rule: detect_pii

  - description: Unknown tool blocked
    tool_call:
      name: delete_account
      args:
        user_id: "123"
    expected: block
    expected_rule: allowed_tools_only
`
