package mysql

// -----------------------------------------------------------------------------
// WRITES
// -----------------------------------------------------------------------------

// Re-abandoning a session overwrites the draft and resets it to abandoned.
const upsertAbandonedSQL = `
INSERT INTO abandoned_bookings
  (session_id, booking_type, hotel_id, room_id, check_in, check_out, guests, price_estimate, payload, status, abandoned_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  booking_type   = VALUES(booking_type),
  hotel_id       = VALUES(hotel_id),
  room_id        = VALUES(room_id),
  check_in       = VALUES(check_in),
  check_out      = VALUES(check_out),
  guests         = VALUES(guests),
  price_estimate = VALUES(price_estimate),
  payload        = VALUES(payload),
  status         = VALUES(status),
  abandoned_at   = VALUES(abandoned_at),
  converted_at   = NULL,
  booking_id     = NULL
`

const markConvertedSQL = `
UPDATE abandoned_bookings
SET status       = 'converted',
    converted_at = UTC_TIMESTAMP(),
    booking_id   = COALESCE(?, booking_id)
WHERE session_id = ?
`

const abandonedExistsSQL = `SELECT 1 FROM abandoned_bookings WHERE session_id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listActiveSlugsSQL = `SELECT slug FROM hotels WHERE active = 1 ORDER BY slug`

// Joins the booking with the hotel branding shown in the guest portal.
const findGuestByTokenSQL = `
SELECT
  b.id,
  b.guest_name,
  b.guest_email,
  b.check_in,
  b.check_out,
  b.status,
  r.name,
  h.slug,
  h.name,
  h.primary_color,
  h.secondary_color,
  h.wifi_name,
  h.wifi_password,
  h.check_in_time,
  h.check_out_time,
  h.phone,
  h.email
FROM bookings b
JOIN hotels h      ON h.id = b.hotel_id
LEFT JOIN rooms r  ON r.id = b.room_id
WHERE b.guest_token = ?
`
